package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDBQuery_Success(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "signals", "x"))
	RecordDBQuery("SELECT", "signals", 5*time.Millisecond, nil)
	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "signals", "x"))
	assert.Equal(t, before, after)
}

func TestRecordDBQuery_Error(t *testing.T) {
	err := errors.New("connection refused")
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "events", err.Error()))
	RecordDBQuery("INSERT", "events", 10*time.Millisecond, err)
	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "events", err.Error()))
	assert.Equal(t, before+1, after)
}

func TestTruncateErrorType_LongMessage(t *testing.T) {
	err := errors.New("this is a very long error message that exceeds fifty characters easily")
	truncated := truncateErrorType(err)
	assert.Len(t, truncated, 50)
}

func TestTruncateErrorType_ShortMessage(t *testing.T) {
	err := errors.New("short")
	assert.Equal(t, "short", truncateErrorType(err))
}

func TestRecordTileFetch(t *testing.T) {
	before := testutil.ToFloat64(DownloaderFetched)
	RecordTileFetch(nil)
	after := testutil.ToFloat64(DownloaderFetched)
	assert.Equal(t, before+1, after)
}

func TestRecordReportGenerated(t *testing.T) {
	before := testutil.ToFloat64(ReportsGenerated.WithLabelValues("csv"))
	RecordReportGenerated("csv", 2*time.Second)
	after := testutil.ToFloat64(ReportsGenerated.WithLabelValues("csv"))
	assert.Equal(t, before+1, after)
}
