package store

import (
	"context"
	"database/sql"

	"nadcal/internal/db"
	"nadcal/internal/event"
)

// SQLiteBackend keeps every collection in one database, one row per event.
type SQLiteBackend struct {
	conn *sql.DB
}

func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteBackend{conn: conn}, nil
}

func (b *SQLiteBackend) Name() string { return "sqlite" }

func (b *SQLiteBackend) Read(ctx context.Context, key string) ([]event.Event, error) {
	return db.ListEvents(ctx, b.conn, key)
}

func (b *SQLiteBackend) Write(ctx context.Context, key string, events []event.Event) error {
	return db.ReplaceEvents(ctx, b.conn, key, events)
}

func (b *SQLiteBackend) Close() error { return b.conn.Close() }
