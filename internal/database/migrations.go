package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// migration upgrades the schema from one version to the next. Index 0 of
// migrations upgrades v1->v2, index 1 upgrades v2->v3, and so on.
type migration func(ctx context.Context, db *sql.DB) error

// migrations is empty today; v1 is the only schema this binary has ever
// shipped. Future deltas append here in order.
var migrations []migration

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	row := db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'schema_version'`)
	var raw string
	if err := row.Scan(&raw); err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}

func setSchemaVersion(ctx context.Context, db *sql.DB, version int) error {
	_, err := db.ExecContext(ctx,
		`UPDATE metadata SET value = ? WHERE key = 'schema_version'`,
		strconv.Itoa(version))
	return err
}

// runMigrations applies every migration between the stored schema_version
// and currentSchemaVersion, in order. At v1 with no migrations registered
// this is a no-op, as documented in the schema.
func runMigrations(ctx context.Context, db *sql.DB) error {
	version, err := schemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("database: read schema_version: %w", err)
	}
	if version > currentSchemaVersion {
		return ErrSchemaVersionUnsupported
	}

	for version < currentSchemaVersion {
		if version-1 >= len(migrations) {
			return fmt.Errorf("database: missing migration from v%d to v%d", version, version+1)
		}
		if err := migrations[version-1](ctx, db); err != nil {
			return fmt.Errorf("database: migrate v%d->v%d: %w", version, version+1, err)
		}
		version++
		if err := setSchemaVersion(ctx, db, version); err != nil {
			return fmt.Errorf("database: persist schema_version=%d: %w", version, err)
		}
	}
	return nil
}
