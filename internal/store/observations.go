package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/starford/raido/internal/apperr"
)

// ObservationRow represents a row in the observations table. Photos is
// the denormalized ordered URI list, serialized as a JSON array.
type ObservationRow struct {
	ID      int64
	HikeID  int64
	Text    string
	At      time.Time
	Comment string
	Photos  []string
}

// InsertObservation inserts a new observation and returns its id. The
// owning hike must exist; the foreign key rejects orphans.
func (db *DB) InsertObservation(row ObservationRow) (int64, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}
	at := row.At
	if at.IsZero() {
		at = time.Now()
	}
	res, err := db.conn.Exec(`
		INSERT INTO observations (hike_id, text, at, comment, photos)
		VALUES (?, ?, ?, ?, ?)
	`, row.HikeID, row.Text, encodeInstant(at), nullable(row.Comment), encodePhotos(row.Photos))
	if err != nil {
		return 0, mapErr("insert observation", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mapErr("insert observation id", err)
	}
	return id, nil
}

// UpdateObservation replaces the full record matching row.ID.
func (db *DB) UpdateObservation(row ObservationRow) error {
	if err := db.guard(); err != nil {
		return err
	}
	res, err := db.conn.Exec(`
		UPDATE observations
		SET hike_id = ?, text = ?, at = ?, comment = ?, photos = ?
		WHERE id = ?
	`, row.HikeID, row.Text, encodeInstant(row.At), nullable(row.Comment),
		encodePhotos(row.Photos), row.ID)
	if err != nil {
		return mapErr("update observation", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteObservation removes the observation with the given id.
func (db *DB) DeleteObservation(id int64) error {
	if err := db.guard(); err != nil {
		return err
	}
	res, err := db.conn.Exec(`DELETE FROM observations WHERE id = ?`, id)
	if err != nil {
		return mapErr("delete observation", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteObservationsForHike bulk-removes every observation owned by the hike.
func (db *DB) DeleteObservationsForHike(hikeID int64) error {
	if err := db.guard(); err != nil {
		return err
	}
	if _, err := db.conn.Exec(`DELETE FROM observations WHERE hike_id = ?`, hikeID); err != nil {
		return mapErr("delete observations for hike", err)
	}
	return nil
}

// GetObservation returns the observation with the given id.
func (db *DB) GetObservation(id int64) (*ObservationRow, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	row := db.conn.QueryRow(`
		SELECT id, hike_id, text, at, comment, photos
		FROM observations WHERE id = ?`, id)
	o, err := scanObservation(row)
	if err != nil {
		return nil, mapErr("get observation", err)
	}
	return o, nil
}

// Observations lists every observation for the hike, newest first.
func (db *DB) Observations(hikeID int64) ([]ObservationRow, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	rows, err := db.conn.Query(`
		SELECT id, hike_id, text, at, comment, photos
		FROM observations WHERE hike_id = ?
		ORDER BY at DESC, id DESC`, hikeID)
	if err != nil {
		return nil, mapErr("list observations", err)
	}
	defer rows.Close()

	var out []ObservationRow
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, mapErr("scan observation", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list observations", err)
	}
	return out, nil
}

// SearchObservations performs a LIKE-based search over observation text
// and comments across all hikes.
func (db *DB) SearchObservations(query string, limit int) ([]ObservationRow, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	like := "%" + escapeLike(query) + "%"
	rows, err := db.conn.Query(`
		SELECT id, hike_id, text, at, comment, photos
		FROM observations
		WHERE text LIKE ? ESCAPE '\' OR comment LIKE ? ESCAPE '\'
		ORDER BY at DESC
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, mapErr("search observations", err)
	}
	defer rows.Close()

	var out []ObservationRow
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, mapErr("scan observation", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func scanObservation(r rowScanner) (*ObservationRow, error) {
	var o ObservationRow
	var comment sql.NullString
	var photos string
	var at int64
	if err := r.Scan(&o.ID, &o.HikeID, &o.Text, &at, &comment, &photos); err != nil {
		return nil, err
	}
	o.At = decodeInstant(at)
	o.Comment = comment.String
	o.Photos = decodePhotos(photos)
	return &o, nil
}

func encodePhotos(uris []string) string {
	if len(uris) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(uris)
	return string(b)
}

func decodePhotos(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}
