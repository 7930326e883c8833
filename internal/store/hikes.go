package store

import (
	"database/sql"
	"time"

	"github.com/starford/raido/internal/apperr"
)

// HikeRow represents a row in the hikes table.
type HikeRow struct {
	ID              int64
	Name            string
	Location        string
	Date            *time.Time
	Parking         bool
	LengthKm        float64
	Difficulty      string
	Description     string
	Terrain         string
	ExpectedWeather string
	CreatedAt       time.Time
}

const hikeColumns = `id, name, location, date, parking, length_km, difficulty,
	description, terrain, expected_weather, created_at`

// UpsertHike inserts a new hike when row.ID is zero, otherwise replaces
// the existing row entirely. The creation timestamp is assigned once at
// insert time and preserved across replaces. Returns the effective id.
// No validation happens here; callers gate input before persisting.
func (db *DB) UpsertHike(row HikeRow) (int64, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}

	createdAt := row.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if row.ID == 0 {
		res, err := db.conn.Exec(`
			INSERT INTO hikes (name, location, date, parking, length_km, difficulty,
				description, terrain, expected_weather, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, row.Name, row.Location, encodeDate(row.Date), row.Parking, row.LengthKm,
			row.Difficulty, nullable(row.Description), nullable(row.Terrain),
			nullable(row.ExpectedWeather), encodeInstant(createdAt))
		if err != nil {
			return 0, mapErr("insert hike", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, mapErr("insert hike id", err)
		}
		return id, nil
	}

	// Explicit id: insert, or replace every column except created_at.
	_, err := db.conn.Exec(`
		INSERT INTO hikes (id, name, location, date, parking, length_km, difficulty,
			description, terrain, expected_weather, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name             = excluded.name,
			location         = excluded.location,
			date             = excluded.date,
			parking          = excluded.parking,
			length_km        = excluded.length_km,
			difficulty       = excluded.difficulty,
			description      = excluded.description,
			terrain          = excluded.terrain,
			expected_weather = excluded.expected_weather
	`, row.ID, row.Name, row.Location, encodeDate(row.Date), row.Parking, row.LengthKm,
		row.Difficulty, nullable(row.Description), nullable(row.Terrain),
		nullable(row.ExpectedWeather), encodeInstant(createdAt))
	if err != nil {
		return 0, mapErr("upsert hike", err)
	}
	return row.ID, nil
}

// GetHike returns the hike with the given id, or apperr.ErrNotFound.
func (db *DB) GetHike(id int64) (*HikeRow, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	row := db.conn.QueryRow(`SELECT `+hikeColumns+` FROM hikes WHERE id = ?`, id)
	h, err := scanHike(row)
	if err != nil {
		return nil, mapErr("get hike", err)
	}
	return h, nil
}

// DeleteHike removes the hike and, through the cascade constraints, every
// observation and media row that references it. SQLite applies the whole
// cascade within the single DELETE statement, so readers never observe a
// half-removed hike.
func (db *DB) DeleteHike(id int64) error {
	if err := db.guard(); err != nil {
		return err
	}
	res, err := db.conn.Exec(`DELETE FROM hikes WHERE id = ?`, id)
	if err != nil {
		return mapErr("delete hike", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ResetAll removes every hike and, via cascade, every observation and
// media row. Irreversible.
func (db *DB) ResetAll() error {
	if err := db.guard(); err != nil {
		return err
	}
	if _, err := db.conn.Exec(`DELETE FROM hikes`); err != nil {
		return mapErr("reset", err)
	}
	return nil
}

// CountHikes returns the number of hike rows.
func (db *DB) CountHikes() (int, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM hikes`).Scan(&n); err != nil {
		return 0, mapErr("count hikes", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHike(r rowScanner) (*HikeRow, error) {
	var h HikeRow
	var date, desc, terrain, weather sql.NullString
	var createdAt int64
	if err := r.Scan(&h.ID, &h.Name, &h.Location, &date, &h.Parking, &h.LengthKm,
		&h.Difficulty, &desc, &terrain, &weather, &createdAt); err != nil {
		return nil, err
	}
	d, err := decodeDate(date)
	if err != nil {
		return nil, err
	}
	h.Date = d
	h.Description = desc.String
	h.Terrain = terrain.String
	h.ExpectedWeather = weather.String
	h.CreatedAt = decodeInstant(createdAt)
	return &h, nil
}

// nullable maps empty strings to NULL so optional text columns stay NULL
// instead of collecting empty values.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
