package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thejerf/suture/v4"

	"github.com/tdoa-platform/core/internal/report"
)

type fakeScheduleRunner struct {
	callCount atomic.Int32
}

func (f *fakeScheduleRunner) ProcessDueReports(ctx context.Context, schedules []*report.ReportSchedule, now time.Time) {
	f.callCount.Add(1)
}

func TestReportSchedulerService_ImplementsSutureService(t *testing.T) {
	var _ suture.Service = (*ReportSchedulerService)(nil)
}

func TestReportSchedulerService_TicksUntilCanceled(t *testing.T) {
	runner := &fakeScheduleRunner{}
	svc := NewReportSchedulerService(runner, nil, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, runner.callCount.Load(), int32(1))
}

func TestReportSchedulerService_DefaultTick(t *testing.T) {
	svc := NewReportSchedulerService(&fakeScheduleRunner{}, nil, 0)
	assert.Equal(t, time.Minute, svc.tick)
}

func TestReportSchedulerService_String(t *testing.T) {
	svc := NewReportSchedulerService(&fakeScheduleRunner{}, nil, time.Minute)
	assert.Equal(t, "report-scheduler", svc.String())
}
