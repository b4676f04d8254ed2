package services

import (
	"context"
	"time"

	"github.com/tdoa-platform/core/internal/report"
)

// ReportScheduleRunner matches report.Scheduler's tick method.
type ReportScheduleRunner interface {
	ProcessDueReports(ctx context.Context, schedules []*report.ReportSchedule, now time.Time)
}

// ReportSchedulerService ticks a report.Scheduler against a fixed set of
// schedules. Each schedule's NextRun is advanced in place by
// ProcessDueReports, so the same slice is reused across ticks.
type ReportSchedulerService struct {
	scheduler ReportScheduleRunner
	schedules []*report.ReportSchedule
	tick      time.Duration
}

// NewReportSchedulerService builds a ReportSchedulerService. tick defaults
// to one minute when zero.
func NewReportSchedulerService(scheduler ReportScheduleRunner, schedules []*report.ReportSchedule, tick time.Duration) *ReportSchedulerService {
	if tick <= 0 {
		tick = time.Minute
	}
	return &ReportSchedulerService{scheduler: scheduler, schedules: schedules, tick: tick}
}

// Serve implements suture.Service.
func (s *ReportSchedulerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.scheduler.ProcessDueReports(ctx, s.schedules, now)
		}
	}
}

// String implements fmt.Stringer.
func (s *ReportSchedulerService) String() string { return "report-scheduler" }
