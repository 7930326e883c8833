package store

import (
	"database/sql"
	"time"

	"github.com/starford/raido/internal/apperr"
)

// MediaRow represents a row in the media table. Rows are never updated
// in place; replacing a photo is delete + insert.
type MediaRow struct {
	ID       int64
	HikeID   int64
	URI      string
	MimeType string
	AddedAt  time.Time
}

// InsertMedia inserts a new media reference and returns its id.
func (db *DB) InsertMedia(row MediaRow) (int64, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}
	addedAt := row.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now()
	}
	res, err := db.conn.Exec(`
		INSERT INTO media (hike_id, uri, mime_type, added_at)
		VALUES (?, ?, ?, ?)
	`, row.HikeID, row.URI, nullable(row.MimeType), encodeInstant(addedAt))
	if err != nil {
		return 0, mapErr("insert media", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mapErr("insert media id", err)
	}
	return id, nil
}

// DeleteMedia removes the media row with the given id.
func (db *DB) DeleteMedia(id int64) error {
	if err := db.guard(); err != nil {
		return err
	}
	res, err := db.conn.Exec(`DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return mapErr("delete media", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteMediaByURI removes every media row referencing the URI, across
// hikes. Used by the media-directory watcher when a stored file vanishes.
// Returns the removed rows so callers can notify per owning hike.
func (db *DB) DeleteMediaByURI(uri string) ([]MediaRow, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	rows, err := db.conn.Query(`
		SELECT id, hike_id, uri, mime_type, added_at FROM media WHERE uri = ?`, uri)
	if err != nil {
		return nil, mapErr("media by uri", err)
	}
	var removed []MediaRow
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			rows.Close()
			return nil, mapErr("media by uri", err)
		}
		removed = append(removed, *m)
	}
	rows.Close()
	if len(removed) == 0 {
		return nil, nil
	}
	if _, err := db.conn.Exec(`DELETE FROM media WHERE uri = ?`, uri); err != nil {
		return nil, mapErr("delete media by uri", err)
	}
	return removed, nil
}

// GetMedia returns the media row with the given id.
func (db *DB) GetMedia(id int64) (*MediaRow, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	row := db.conn.QueryRow(`
		SELECT id, hike_id, uri, mime_type, added_at FROM media WHERE id = ?`, id)
	m, err := scanMedia(row)
	if err != nil {
		return nil, mapErr("get media", err)
	}
	return m, nil
}

// MediaForHike lists every media reference for the hike, newest first.
func (db *DB) MediaForHike(hikeID int64) ([]MediaRow, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	rows, err := db.conn.Query(`
		SELECT id, hike_id, uri, mime_type, added_at
		FROM media WHERE hike_id = ?
		ORDER BY added_at DESC, id DESC`, hikeID)
	if err != nil {
		return nil, mapErr("list media", err)
	}
	defer rows.Close()

	var out []MediaRow
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, mapErr("scan media", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list media", err)
	}
	return out, nil
}

// AllMediaURIs returns the distinct URIs referenced by any media row.
// The watcher uses it to reconcile rows against files on disk.
func (db *DB) AllMediaURIs() (map[string]struct{}, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	rows, err := db.conn.Query(`SELECT DISTINCT uri FROM media`)
	if err != nil {
		return nil, mapErr("all media uris", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			return nil, mapErr("all media uris", err)
		}
		out[uri] = struct{}{}
	}
	return out, rows.Err()
}

func scanMedia(r rowScanner) (*MediaRow, error) {
	var m MediaRow
	var mime sql.NullString
	var addedAt int64
	if err := r.Scan(&m.ID, &m.HikeID, &m.URI, &mime, &addedAt); err != nil {
		return nil, err
	}
	m.MimeType = mime.String
	m.AddedAt = decodeInstant(addedAt)
	return &m, nil
}
