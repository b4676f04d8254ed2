package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Vacuumer is the subset of database.DB needed to run periodic maintenance.
type Vacuumer interface {
	Vacuum(ctx context.Context) error
}

// DBMaintenanceService runs Vacuum on a fixed interval for the lifetime of
// the supervisor context.
type DBMaintenanceService struct {
	db       Vacuumer
	interval time.Duration
}

// NewDBMaintenanceService builds a DBMaintenanceService over db, ticking
// every interval (default 24h if interval <= 0).
func NewDBMaintenanceService(db Vacuumer, interval time.Duration) *DBMaintenanceService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &DBMaintenanceService{db: db, interval: interval}
}

// Serve implements suture.Service.
func (s *DBMaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.db.Vacuum(ctx); err != nil {
				log.Warn().Err(err).Msg("db-maintenance: vacuum failed")
			}
		}
	}
}

// String implements fmt.Stringer.
func (s *DBMaintenanceService) String() string { return "db-maintenance" }
