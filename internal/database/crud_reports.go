package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// InsertReport assigns an id and created_at, then persists r.
func (db *DB) InsertReport(ctx context.Context, r *ReportRecord) error {
	r.CreatedAt = time.Now().UTC()
	return db.BeginWrite(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT nextval('reports_id_seq')`)
		if err := row.Scan(&r.ID); err != nil {
			return fmt.Errorf("database: insert report: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reports (id, report_type, name, format, output_path, parameters, generated_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.ReportType, r.Name, r.Format, r.OutputPath,
			nullableBytes(r.Parameters), r.GeneratedAt, r.CreatedAt)
		if err != nil {
			return fmt.Errorf("database: insert report: %w", err)
		}
		return nil
	})
}

// DeleteReport removes a report by id.
func (db *DB) DeleteReport(ctx context.Context, id int64) error {
	return db.BeginWrite(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("database: delete report %d: %w", id, err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GetReport fetches a single report by id.
func (db *DB) GetReport(ctx context.Context, id int64) (*ReportRecord, error) {
	row := db.sql.QueryRowContext(ctx, `
		SELECT id, report_type, name, format, output_path, parameters, generated_at, created_at
		FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database: get report %d: %w", id, err)
	}
	return r, nil
}

// QueryReports returns every row matching f, ordered and paginated per f.
func (db *DB) QueryReports(ctx context.Context, f *Filter) ([]*ReportRecord, error) {
	query, args := f.buildQuery(`SELECT id, report_type, name, format, output_path,
		parameters, generated_at, created_at FROM reports`)
	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database: query reports: %w", err)
	}
	defer rows.Close()

	var out []*ReportRecord
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("database: scan report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountReports returns the number of rows matching f.
func (db *DB) CountReports(ctx context.Context, f *Filter) (int64, error) {
	query, args := f.buildCount(`SELECT id FROM reports`)
	var count int64
	if err := db.sql.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("database: count reports: %w", err)
	}
	return count, nil
}

func scanReport(row rowScanner) (*ReportRecord, error) {
	var r ReportRecord
	var parameters sql.NullString

	err := row.Scan(&r.ID, &r.ReportType, &r.Name, &r.Format, &r.OutputPath,
		&parameters, &r.GeneratedAt, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if parameters.Valid {
		r.Parameters = []byte(parameters.String)
	}
	return &r, nil
}
