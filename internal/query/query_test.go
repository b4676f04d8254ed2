package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdoa-platform/core/internal/database"
)

func openTestFacade(t *testing.T) (*Facade, *database.DB) {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(context.Background(), dir+"/test.duckdb")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestSignalStatistics_SingleRow(t *testing.T) {
	q, db := openTestFacade(t)
	ctx := context.Background()

	require.NoError(t, db.InsertSignal(ctx, &database.SignalRecord{
		Timestamp: time.Now().UTC(), FreqHz: 145.5e6, PowerDBm: -85.2, SNRDB: 15.8,
		NodeID: "node001", TrackID: "track001", HasTrackID: true,
	}))

	stats, err := q.SignalStatistics(ctx, database.TimeRange{}, 145.4e6, 145.6e6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, 145.5e6, stats.MinFrequency)
	assert.Equal(t, 145.5e6, stats.MaxFrequency)
}

func TestFindRelatedTracks(t *testing.T) {
	q, db := openTestFacade(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.InsertSignal(ctx, &database.SignalRecord{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			FreqHz:    146.000e6 + float64(i)*0.025e6,
			NodeID:    "n1", TrackID: "T2", HasTrackID: true,
		}))
	}
	require.NoError(t, db.InsertSignal(ctx, &database.SignalRecord{
		Timestamp: base.Add(2 * time.Second), FreqHz: 146.050e6,
		NodeID: "n1", TrackID: "T3", HasTrackID: true,
	}))

	related, err := q.FindRelatedTracks(ctx, "T2", 10e3, 5.0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"T3"}, related)
}

func TestSearchSignals_PaginationEnvelope(t *testing.T) {
	q, db := openTestFacade(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, db.InsertSignal(ctx, &database.SignalRecord{
			Timestamp: time.Now().UTC(), FreqHz: float64(i), NodeID: "n1",
		}))
	}

	p := NewSearchParams()
	p.PageSize = 2
	result, err := q.SearchSignals(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalCount)
	assert.Equal(t, int64(2), result.PageCount)
	assert.True(t, result.HasNext)
	assert.False(t, result.HasPrev)
	assert.Len(t, result.Items, 2)
}

func TestFrequencyDensity_BinsSumToTotalSignals(t *testing.T) {
	q, db := openTestFacade(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, db.InsertSignal(ctx, &database.SignalRecord{
			Timestamp: time.Now().UTC(), FreqHz: 100e6 + float64(i)*1e6,
			PowerDBm: -80, SNRDB: 10, NodeID: "n1",
		}))
	}

	bins, err := q.FrequencyDensity(ctx, 100e6, 110e6, 1e6)
	require.NoError(t, err)

	require.Len(t, bins, 10)
	var total int64
	for _, b := range bins {
		total += b.SignalCount
	}
	assert.Equal(t, int64(10), total)
}

func TestFrequencyDensity_PartialBinRoundsUp(t *testing.T) {
	q, _ := openTestFacade(t)
	ctx := context.Background()

	bins, err := q.FrequencyDensity(ctx, 100e6, 102.5e6, 1e6)
	require.NoError(t, err)
	assert.Len(t, bins, 3)
}
