package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// InsertEvent assigns an id and created_at, then persists r. Events are
// append-only: there is no UpdateEvent.
func (db *DB) InsertEvent(ctx context.Context, r *EventRecord) error {
	r.CreatedAt = time.Now().UTC()
	return db.BeginWrite(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT nextval('events_id_seq')`)
		if err := row.Scan(&r.ID); err != nil {
			return fmt.Errorf("database: insert event: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (id, timestamp, event_type, severity, source, description, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Timestamp, r.EventType, int(r.Severity), r.Source, r.Description,
			nullableBytes(r.Metadata), r.CreatedAt)
		if err != nil {
			return fmt.Errorf("database: insert event: %w", err)
		}
		return nil
	})
}

// DeleteEvent removes an event by id.
func (db *DB) DeleteEvent(ctx context.Context, id int64) error {
	return db.BeginWrite(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("database: delete event %d: %w", id, err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GetEvent fetches a single event by id.
func (db *DB) GetEvent(ctx context.Context, id int64) (*EventRecord, error) {
	row := db.sql.QueryRowContext(ctx, `
		SELECT id, timestamp, event_type, severity, source, description, metadata, created_at
		FROM events WHERE id = ?`, id)
	r, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database: get event %d: %w", id, err)
	}
	return r, nil
}

// QueryEvents returns every row matching f, ordered and paginated per f.
func (db *DB) QueryEvents(ctx context.Context, f *Filter) ([]*EventRecord, error) {
	query, args := f.buildQuery(`SELECT id, timestamp, event_type, severity, source,
		description, metadata, created_at FROM events`)
	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database: query events: %w", err)
	}
	defer rows.Close()

	var out []*EventRecord
	for rows.Next() {
		r, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("database: scan event: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountEvents returns the number of rows matching f.
func (db *DB) CountEvents(ctx context.Context, f *Filter) (int64, error) {
	query, args := f.buildCount(`SELECT id FROM events`)
	var count int64
	if err := db.sql.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("database: count events: %w", err)
	}
	return count, nil
}

func scanEvent(row rowScanner) (*EventRecord, error) {
	var r EventRecord
	var severity int
	var metadata sql.NullString

	err := row.Scan(&r.ID, &r.Timestamp, &r.EventType, &severity, &r.Source, &r.Description,
		&metadata, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	r.Severity = EventSeverity(severity)
	if metadata.Valid {
		r.Metadata = []byte(metadata.String)
	}
	return &r, nil
}
