package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// signalSortColumns whitelists the columns SearchSignals may order by.
var signalSortColumns = map[string]bool{
	"timestamp": true, "freq_hz": true, "power_dbm": true, "snr_db": true, "created_at": true,
}

// InsertSignal assigns an id and created_at/updated_at, then persists r.
func (db *DB) InsertSignal(ctx context.Context, r *SignalRecord) error {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	return db.BeginWrite(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT nextval('signals_id_seq')`)
		if err := row.Scan(&r.ID); err != nil {
			return fmt.Errorf("database: insert signal: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO signals (id, timestamp, freq_hz, bandwidth_hz, power_dbm, snr_db,
				signal_class, confidence, node_id, track_id, metadata, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Timestamp, r.FreqHz, r.BandwidthHz, r.PowerDBm, r.SNRDB,
			nullableString(r.SignalClass, r.HasClass),
			nullableFloat(r.Confidence, r.HasConfidence),
			r.NodeID, nullableString(r.TrackID, r.HasTrackID), nullableBytes(r.Metadata),
			r.CreatedAt, r.UpdatedAt)
		if err != nil {
			return fmt.Errorf("database: insert signal: %w", err)
		}
		return nil
	})
}

// UpdateSignal overwrites every mutable column of an existing row by id.
func (db *DB) UpdateSignal(ctx context.Context, r *SignalRecord) error {
	r.UpdatedAt = time.Now().UTC()
	return db.BeginWrite(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE signals SET timestamp=?, freq_hz=?, bandwidth_hz=?, power_dbm=?, snr_db=?,
				signal_class=?, confidence=?, node_id=?, track_id=?, metadata=?, updated_at=?
			WHERE id=?`,
			r.Timestamp, r.FreqHz, r.BandwidthHz, r.PowerDBm, r.SNRDB,
			nullableString(r.SignalClass, r.HasClass),
			nullableFloat(r.Confidence, r.HasConfidence),
			r.NodeID, nullableString(r.TrackID, r.HasTrackID), nullableBytes(r.Metadata),
			r.UpdatedAt, r.ID)
		if err != nil {
			return fmt.Errorf("database: update signal %d: %w", r.ID, err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteSignal removes a signal by id. Any geolocation referencing it is
// cascade-deleted by the schema's foreign key.
func (db *DB) DeleteSignal(ctx context.Context, id int64) error {
	return db.BeginWrite(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM signals WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("database: delete signal %d: %w", id, err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GetSignal fetches a single signal by id.
func (db *DB) GetSignal(ctx context.Context, id int64) (*SignalRecord, error) {
	row := db.sql.QueryRowContext(ctx, `
		SELECT id, timestamp, freq_hz, bandwidth_hz, power_dbm, snr_db,
			signal_class, confidence, node_id, track_id, metadata, created_at, updated_at
		FROM signals WHERE id = ?`, id)
	r, err := scanSignal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database: get signal %d: %w", id, err)
	}
	return r, nil
}

// QuerySignals returns every row matching f, ordered and paginated per f.
func (db *DB) QuerySignals(ctx context.Context, f *Filter) ([]*SignalRecord, error) {
	query, args := f.buildQuery(`SELECT id, timestamp, freq_hz, bandwidth_hz, power_dbm, snr_db,
		signal_class, confidence, node_id, track_id, metadata, created_at, updated_at FROM signals`)
	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database: query signals: %w", err)
	}
	defer rows.Close()

	var out []*SignalRecord
	for rows.Next() {
		r, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("database: scan signal: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountSignals returns the number of rows matching f, ignoring its
// ordering and pagination.
func (db *DB) CountSignals(ctx context.Context, f *Filter) (int64, error) {
	query, args := f.buildCount(`SELECT id FROM signals`)
	var count int64
	if err := db.sql.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("database: count signals: %w", err)
	}
	return count, nil
}

// GetTrackSignals returns every signal for trackID ordered ascending by
// timestamp.
func (db *DB) GetTrackSignals(ctx context.Context, trackID string) ([]*SignalRecord, error) {
	f := NewFilter().Where("track_id = ?", trackID).OrderBy("timestamp", false)
	return db.QuerySignals(ctx, f)
}

// DeleteTrack removes every signal and geolocation for trackID.
func (db *DB) DeleteTrack(ctx context.Context, trackID string) error {
	return db.BeginWrite(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM geolocations WHERE track_id = ?`, trackID); err != nil {
			return fmt.Errorf("database: delete track geolocations %q: %w", trackID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM signals WHERE track_id = ?`, trackID); err != nil {
			return fmt.Errorf("database: delete track signals %q: %w", trackID, err)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSignal(row rowScanner) (*SignalRecord, error) {
	var r SignalRecord
	var signalClass, trackID sql.NullString
	var confidence sql.NullFloat64
	var metadata sql.NullString

	err := row.Scan(&r.ID, &r.Timestamp, &r.FreqHz, &r.BandwidthHz, &r.PowerDBm, &r.SNRDB,
		&signalClass, &confidence, &r.NodeID, &trackID, &metadata, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	r.SignalClass, r.HasClass = signalClass.String, signalClass.Valid
	r.Confidence, r.HasConfidence = confidence.Float64, confidence.Valid
	r.TrackID, r.HasTrackID = trackID.String, trackID.Valid
	if metadata.Valid {
		r.Metadata = []byte(metadata.String)
	}
	return &r, nil
}

func nullableString(s string, valid bool) any {
	if !valid {
		return nil
	}
	return s
}

func nullableFloat(f float64, valid bool) any {
	if !valid {
		return nil
	}
	return f
}

func nullableBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
