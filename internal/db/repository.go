package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nadcal/internal/event"
)

const timeLayout = time.RFC3339Nano

// ReplaceEvents swaps the whole collection stored under key for events,
// keeping their order.
func ReplaceEvents(ctx context.Context, conn *sql.DB, key string, events []event.Event) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE store_key = ?`, key); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}

	for i, e := range events {
		var updated sql.NullString
		if e.UpdatedAt != nil {
			updated = sql.NullString{String: e.UpdatedAt.Format(timeLayout), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events(store_key, position, id, date, time, description, attendees, location, raw_text, created_at, updated_at)
			 VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
			key,
			i,
			e.ID,
			nullable(e.Date),
			nullable(e.Time),
			nullable(e.Description),
			nullable(e.Attendees),
			nullable(e.Location),
			e.RawText,
			e.CreatedAt.Format(timeLayout),
			updated,
		); err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func ListEvents(ctx context.Context, conn *sql.DB, key string) ([]event.Event, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT id, date, time, description, attendees, location, raw_text, created_at, updated_at
		 FROM events WHERE store_key = ? ORDER BY position`, key)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		var (
			e                                   event.Event
			date, clock, desc, attendees, place sql.NullString
			created                             string
			updated                             sql.NullString
		)
		if err := rows.Scan(&e.ID, &date, &clock, &desc, &attendees, &place, &e.RawText, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Date, e.Time, e.Description = fromNullable(date), fromNullable(clock), fromNullable(desc)
		e.Attendees, e.Location = fromNullable(attendees), fromNullable(place)
		if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", e.ID, err)
		}
		if updated.Valid {
			t, err := time.Parse(timeLayout, updated.String)
			if err != nil {
				return nil, fmt.Errorf("parse updated_at of %s: %w", e.ID, err)
			}
			e.UpdatedAt = &t
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func fromNullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
