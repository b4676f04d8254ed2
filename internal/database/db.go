package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog/log"
)

// DB wraps a DuckDB connection pool with an explicit single-writer guard.
// Reads flow through the pool freely; every write (insert/update/delete,
// schema DDL, maintenance) takes writeMu for the duration of the
// statement so concurrent writers never interleave, regardless of how
// many connections the driver itself hands out.
type DB struct {
	sql     *sql.DB
	writeMu sync.Mutex
	path    string
}

// Open creates or attaches the DuckDB file at path, applies schema and
// migrations, and returns a ready-to-use store.
func Open(ctx context.Context, path string) (*DB, error) {
	sqlDB, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("database: open %q: %w", path, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database: ping %q: %w", path, err)
	}

	db := &DB{sql: sqlDB, path: path}

	if err := db.withWriteLock(func() error { return createSchema(ctx, sqlDB) }); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database: create schema: %w", err)
	}
	if err := db.withWriteLock(func() error { return runMigrations(ctx, sqlDB) }); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database: run migrations: %w", err)
	}

	log.Info().Str("path", path).Msg("database opened")
	return db, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.sql.Close()
}

// withWriteLock serializes f against every other write on this store.
func (db *DB) withWriteLock(f func() error) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()
	return f()
}

// Begin starts a transaction. Callers that intend to write must wrap the
// whole transaction in withWriteLock via BeginWrite instead.
func (db *DB) Begin(ctx context.Context) (*sql.Tx, error) {
	return db.sql.BeginTx(ctx, nil)
}

// BeginWrite starts a transaction under the write guard and runs fn inside
// it, committing on success and rolling back on any error (including a
// panic, which is re-raised after rollback).
func (db *DB) BeginWrite(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("database: begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("database: commit: %w", err)
	}
	return nil
}
