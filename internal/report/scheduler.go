package report

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tdoa-platform/core/internal/database"
)

// Scheduler runs due ReportSchedules against an Engine.
type Scheduler struct {
	engine *Engine
}

// NewScheduler builds a scheduler over engine.
func NewScheduler(engine *Engine) *Scheduler {
	return &Scheduler{engine: engine}
}

// ProcessDueReports scans schedules in place: for each enabled schedule
// whose NextRun has passed, it generates and exports the report, then
// advances NextRun by Interval. A failure is logged and leaves NextRun
// untouched so the same schedule retries next tick.
func (s *Scheduler) ProcessDueReports(ctx context.Context, schedules []*ReportSchedule, now time.Time) {
	for _, sched := range schedules {
		if !sched.Enabled || sched.NextRun.After(now) {
			continue
		}

		opts := ReportOptions{
			Format:           sched.Format,
			TimeRange:        database.TimeRange{Start: now.Add(-sched.Interval), End: now},
			CustomParameters: sched.Parameters,
		}
		if v, ok := sched.Parameters["track_id"]; ok {
			opts.TrackID, opts.HasTrackID = v, true
		}

		text, err := s.engine.GenerateReport(ctx, sched.ReportName, opts)
		if err != nil {
			log.Error().Err(err).Str("report", sched.ReportName).Msg("report: generation failed, will retry")
			continue
		}

		if err := Export(sched.Format, text, sched.OutputPath); err != nil {
			log.Error().Err(err).Str("report", sched.ReportName).Msg("report: export failed, will retry")
			continue
		}

		sched.NextRun = now.Add(sched.Interval)
	}
}
