package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS events (
    store_key TEXT NOT NULL,
    position INTEGER NOT NULL,
    id TEXT NOT NULL,
    date TEXT,
    time TEXT,
    description TEXT,
    attendees TEXT,
    location TEXT,
    raw_text TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT,
    PRIMARY KEY (store_key, id)
);

CREATE INDEX IF NOT EXISTS events_by_date ON events(store_key, date);
`

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; sqlite serializes writes anyway
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
