package database

import (
	"context"
	"database/sql"
)

// currentSchemaVersion is the schema version this binary expects. An empty
// metadata table on first open is stamped with this value.
const currentSchemaVersion = 1

const schemaDDL = `
CREATE TABLE IF NOT EXISTS metadata (
	key   VARCHAR PRIMARY KEY,
	value VARCHAR NOT NULL
);

CREATE TABLE IF NOT EXISTS signals (
	id           BIGINT PRIMARY KEY,
	timestamp    TIMESTAMP NOT NULL,
	freq_hz      DOUBLE NOT NULL,
	bandwidth_hz DOUBLE NOT NULL,
	power_dbm    DOUBLE NOT NULL,
	snr_db       DOUBLE NOT NULL,
	signal_class VARCHAR,
	confidence   DOUBLE,
	node_id      VARCHAR NOT NULL,
	track_id     VARCHAR,
	metadata     VARCHAR,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signals_timestamp ON signals(timestamp);
CREATE INDEX IF NOT EXISTS idx_signals_frequency ON signals(freq_hz);
CREATE INDEX IF NOT EXISTS idx_signals_track_id ON signals(track_id);

CREATE TABLE IF NOT EXISTS geolocations (
	id          BIGINT PRIMARY KEY,
	timestamp   TIMESTAMP NOT NULL,
	lat         DOUBLE NOT NULL,
	lon         DOUBLE NOT NULL,
	alt         DOUBLE,
	accuracy_m  DOUBLE,
	signal_id   BIGINT NOT NULL REFERENCES signals(id) ON DELETE CASCADE,
	track_id    VARCHAR,
	confidence  DOUBLE,
	method      VARCHAR NOT NULL,
	metadata    VARCHAR,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_geolocations_timestamp ON geolocations(timestamp);
CREATE INDEX IF NOT EXISTS idx_geolocations_track_id ON geolocations(track_id);

CREATE TABLE IF NOT EXISTS events (
	id          BIGINT PRIMARY KEY,
	timestamp   TIMESTAMP NOT NULL,
	event_type  VARCHAR NOT NULL,
	severity    INTEGER NOT NULL,
	source      VARCHAR NOT NULL,
	description VARCHAR NOT NULL,
	metadata    VARCHAR,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
CREATE INDEX IF NOT EXISTS idx_events_event_type ON events(event_type);

CREATE TABLE IF NOT EXISTS reports (
	id           BIGINT PRIMARY KEY,
	report_type  VARCHAR NOT NULL,
	name         VARCHAR NOT NULL,
	format       VARCHAR NOT NULL,
	output_path  VARCHAR NOT NULL,
	parameters   VARCHAR,
	generated_at TIMESTAMP NOT NULL,
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_report_type ON reports(report_type);

CREATE SEQUENCE IF NOT EXISTS signals_id_seq START 1;
CREATE SEQUENCE IF NOT EXISTS geolocations_id_seq START 1;
CREATE SEQUENCE IF NOT EXISTS events_id_seq START 1;
CREATE SEQUENCE IF NOT EXISTS reports_id_seq START 1;
`

func createSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return err
	}

	var count int
	row := db.QueryRowContext(ctx, `SELECT count(*) FROM metadata WHERE key = 'schema_version'`)
	if err := row.Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.ExecContext(ctx,
			`INSERT INTO metadata (key, value) VALUES ('schema_version', ?)`,
			currentSchemaVersion)
		return err
	}
	return nil
}
