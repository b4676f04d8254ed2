package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// InsertGeolocation assigns an id and timestamps, then persists r.
func (db *DB) InsertGeolocation(ctx context.Context, r *GeolocationRecord) error {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	return db.BeginWrite(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT nextval('geolocations_id_seq')`)
		if err := row.Scan(&r.ID); err != nil {
			return fmt.Errorf("database: insert geolocation: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO geolocations (id, timestamp, lat, lon, alt, accuracy_m, signal_id,
				track_id, confidence, method, metadata, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Timestamp, r.Lat, r.Lon,
			nullableFloat(r.Alt, r.HasAlt), nullableFloat(r.AccuracyM, r.HasAccuracy),
			r.SignalID, nullableString(r.TrackID, r.HasTrackID),
			nullableFloat(r.Confidence, r.HasConfidence), string(r.Method),
			nullableBytes(r.Metadata), r.CreatedAt, r.UpdatedAt)
		if err != nil {
			return fmt.Errorf("database: insert geolocation: %w", err)
		}
		return nil
	})
}

// DeleteGeolocation removes a geolocation by id.
func (db *DB) DeleteGeolocation(ctx context.Context, id int64) error {
	return db.BeginWrite(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM geolocations WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("database: delete geolocation %d: %w", id, err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GetGeolocation fetches a single geolocation by id.
func (db *DB) GetGeolocation(ctx context.Context, id int64) (*GeolocationRecord, error) {
	row := db.sql.QueryRowContext(ctx, `
		SELECT id, timestamp, lat, lon, alt, accuracy_m, signal_id, track_id, confidence,
			method, metadata, created_at, updated_at
		FROM geolocations WHERE id = ?`, id)
	r, err := scanGeolocation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database: get geolocation %d: %w", id, err)
	}
	return r, nil
}

// QueryGeolocations returns every row matching f, ordered and paginated
// per f.
func (db *DB) QueryGeolocations(ctx context.Context, f *Filter) ([]*GeolocationRecord, error) {
	query, args := f.buildQuery(`SELECT id, timestamp, lat, lon, alt, accuracy_m, signal_id,
		track_id, confidence, method, metadata, created_at, updated_at FROM geolocations`)
	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database: query geolocations: %w", err)
	}
	defer rows.Close()

	var out []*GeolocationRecord
	for rows.Next() {
		r, err := scanGeolocation(rows)
		if err != nil {
			return nil, fmt.Errorf("database: scan geolocation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountGeolocations returns the number of rows matching f.
func (db *DB) CountGeolocations(ctx context.Context, f *Filter) (int64, error) {
	query, args := f.buildCount(`SELECT id FROM geolocations`)
	var count int64
	if err := db.sql.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("database: count geolocations: %w", err)
	}
	return count, nil
}

// GetTrackGeolocations returns every geolocation for trackID ordered
// ascending by timestamp.
func (db *DB) GetTrackGeolocations(ctx context.Context, trackID string) ([]*GeolocationRecord, error) {
	f := NewFilter().Where("track_id = ?", trackID).OrderBy("timestamp", false)
	return db.QueryGeolocations(ctx, f)
}

func scanGeolocation(row rowScanner) (*GeolocationRecord, error) {
	var r GeolocationRecord
	var alt, accuracy, confidence sql.NullFloat64
	var trackID sql.NullString
	var method string
	var metadata sql.NullString

	err := row.Scan(&r.ID, &r.Timestamp, &r.Lat, &r.Lon, &alt, &accuracy, &r.SignalID,
		&trackID, &confidence, &method, &metadata, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	r.Alt, r.HasAlt = alt.Float64, alt.Valid
	r.AccuracyM, r.HasAccuracy = accuracy.Float64, accuracy.Valid
	r.TrackID, r.HasTrackID = trackID.String, trackID.Valid
	r.Confidence, r.HasConfidence = confidence.Float64, confidence.Valid
	r.Method = GeolocationMethod(method)
	if metadata.Valid {
		r.Metadata = []byte(metadata.String)
	}
	return &r, nil
}
