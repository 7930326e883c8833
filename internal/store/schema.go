package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS hikes (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	name             TEXT NOT NULL,
	location         TEXT NOT NULL,
	date             TEXT,
	parking          INTEGER NOT NULL DEFAULT 0,
	length_km        REAL NOT NULL,
	difficulty       TEXT NOT NULL,
	description      TEXT,
	terrain          TEXT,
	expected_weather TEXT,
	created_at       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS observations (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	hike_id INTEGER NOT NULL REFERENCES hikes(id) ON DELETE CASCADE,
	text    TEXT NOT NULL,
	at      INTEGER NOT NULL,
	comment TEXT,
	photos  TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS media (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	hike_id   INTEGER NOT NULL REFERENCES hikes(id) ON DELETE CASCADE,
	uri       TEXT NOT NULL,
	mime_type TEXT,
	added_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_observations_hike ON observations(hike_id);
CREATE INDEX IF NOT EXISTS idx_media_hike ON media(hike_id);
`
