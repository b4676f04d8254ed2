package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Vacuum reclaims space freed by prior deletes.
func (db *DB) Vacuum(ctx context.Context) error {
	return db.withWriteLock(func() error {
		if _, err := db.sql.ExecContext(ctx, `VACUUM`); err != nil {
			return fmt.Errorf("database: vacuum: %w", err)
		}
		return nil
	})
}

// Backup writes a consistent copy of the database to destPath using
// DuckDB's native EXPORT DATABASE, which captures schema and data as
// portable Parquet+SQL rather than a raw file copy.
func (db *DB) Backup(ctx context.Context, destPath string) error {
	return db.withWriteLock(func() error {
		_, err := db.sql.ExecContext(ctx, fmt.Sprintf(`EXPORT DATABASE '%s' (FORMAT PARQUET)`, destPath))
		if err != nil {
			return fmt.Errorf("database: backup to %q: %w", destPath, err)
		}
		return nil
	})
}

// Restore loads a database previously written by Backup into the current
// connection, replacing existing data.
func (db *DB) Restore(ctx context.Context, srcPath string) error {
	return db.withWriteLock(func() error {
		_, err := db.sql.ExecContext(ctx, fmt.Sprintf(`IMPORT DATABASE '%s'`, srcPath))
		if err != nil {
			return fmt.Errorf("database: restore from %q: %w", srcPath, err)
		}
		return nil
	})
}

// PurgeOlderThan deletes signals, geolocations, and events with a
// timestamp older than cutoff. Geolocations referencing purged signals
// cascade automatically; it still runs its own delete first for
// geolocations whose signal survives the cutoff but which are themselves
// older. Returns the number of rows removed per table.
func (db *DB) PurgeOlderThan(ctx context.Context, cutoff time.Time) (signals, geolocations, events int64, err error) {
	err = db.BeginWrite(ctx, func(tx *sql.Tx) error {
		res, execErr := tx.ExecContext(ctx, `DELETE FROM geolocations WHERE timestamp < ?`, cutoff)
		if execErr != nil {
			return fmt.Errorf("database: purge geolocations: %w", execErr)
		}
		geolocations, _ = res.RowsAffected()

		res, execErr = tx.ExecContext(ctx, `DELETE FROM signals WHERE timestamp < ?`, cutoff)
		if execErr != nil {
			return fmt.Errorf("database: purge signals: %w", execErr)
		}
		signals, _ = res.RowsAffected()

		res, execErr = tx.ExecContext(ctx, `DELETE FROM events WHERE timestamp < ?`, cutoff)
		if execErr != nil {
			return fmt.Errorf("database: purge events: %w", execErr)
		}
		events, _ = res.RowsAffected()
		return nil
	})
	return
}
