package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(context.Background(), dir+"/test.duckdb")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_CreatesSchemaAndStampsVersion(t *testing.T) {
	db := openTestDB(t)

	var version string
	row := db.sql.QueryRowContext(context.Background(), `SELECT value FROM metadata WHERE key = 'schema_version'`)
	require.NoError(t, row.Scan(&version))
	assert.Equal(t, "1", version)
}

func TestInsertAndGetSignal(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	r := &SignalRecord{
		Timestamp:   time.Now().UTC(),
		FreqHz:      145.5e6,
		BandwidthHz: 12.5e3,
		PowerDBm:    -85.2,
		SNRDB:       15.8,
		SignalClass: "FM",
		HasClass:    true,
		Confidence:  0.95,
		HasConfidence: true,
		NodeID:      "node001",
		TrackID:     "track001",
		HasTrackID:  true,
	}
	require.NoError(t, db.InsertSignal(ctx, r))
	assert.NotZero(t, r.ID)
	assert.False(t, r.CreatedAt.After(r.UpdatedAt))

	got, err := db.GetSignal(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.FreqHz, got.FreqHz)
	assert.Equal(t, "FM", got.SignalClass)
	assert.True(t, got.HasConfidence)
}

func TestGetSignal_NotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetSignal(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuerySignals_FrequencyRangeFiltersCorrectly(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InsertSignal(ctx, &SignalRecord{
		Timestamp: time.Now().UTC(), FreqHz: 145.5e6, NodeID: "n1",
	}))
	require.NoError(t, db.InsertSignal(ctx, &SignalRecord{
		Timestamp: time.Now().UTC(), FreqHz: 200e6, NodeID: "n1",
	}))

	f := NewFilter().Where("freq_hz >= ?", 145.4e6).Where("freq_hz <= ?", 145.6e6)
	results, err := db.QuerySignals(ctx, f)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 145.5e6, results[0].FreqHz)
}

func TestGeolocationCascadeDeleteOnSignalDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	sig := &SignalRecord{Timestamp: time.Now().UTC(), FreqHz: 915e6, NodeID: "n1"}
	require.NoError(t, db.InsertSignal(ctx, sig))

	geo := &GeolocationRecord{
		Timestamp: time.Now().UTC(), Lat: 37.7, Lon: -122.4,
		SignalID: sig.ID, Method: MethodTDOA,
	}
	require.NoError(t, db.InsertGeolocation(ctx, geo))

	require.NoError(t, db.DeleteSignal(ctx, sig.ID))

	_, err := db.GetGeolocation(ctx, geo.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTrack_RemovesSignalsAndGeolocations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	sig := &SignalRecord{Timestamp: time.Now().UTC(), FreqHz: 915e6, NodeID: "n1", TrackID: "T1", HasTrackID: true}
	require.NoError(t, db.InsertSignal(ctx, sig))
	require.NoError(t, db.InsertGeolocation(ctx, &GeolocationRecord{
		Timestamp: time.Now().UTC(), Lat: 1, Lon: 1, SignalID: sig.ID,
		TrackID: "T1", HasTrackID: true, Method: MethodTDOA,
	}))

	require.NoError(t, db.DeleteTrack(ctx, "T1"))

	sigs, err := db.GetTrackSignals(ctx, "T1")
	require.NoError(t, err)
	assert.Empty(t, sigs)
}

func TestPurgeOlderThan(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, db.InsertSignal(ctx, &SignalRecord{Timestamp: old, FreqHz: 1, NodeID: "n1"}))
	require.NoError(t, db.InsertSignal(ctx, &SignalRecord{Timestamp: time.Now().UTC(), FreqHz: 2, NodeID: "n1"}))

	signals, _, _, err := db.PurgeOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), signals)
}
