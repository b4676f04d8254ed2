package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns production-ready defaults, matching suture's
// own built-in defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// SupervisorTree manages the hierarchical supervisor structure for the
// platform's background services.
//
// The tree is organized into three layers:
//   - acquisition: the device streaming producer
//   - maintenance: database maintenance, the report scheduler tick and,
//     when the event bus is enabled, the node-metrics producer
//   - serving: the tile downloader pool and the tile HTTP server (which
//     runs the tile-age sweep itself)
//
// This structure provides failure isolation: a crash in a maintenance
// service doesn't affect the serving layer's ability to answer tile
// requests from the existing cache.
type SupervisorTree struct {
	root        *suture.Supervisor
	acquisition *suture.Supervisor
	maintenance *suture.Supervisor
	serving     *suture.Supervisor
	logger      *slog.Logger
	config      TreeConfig
}

// NewSupervisorTree creates a new supervisor tree with the given configuration.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5.0
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = 30.0
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = 15 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	// sutureslog's Handler has a pointer receiver for MustHook.
	handler := &sutureslog.Handler{Logger: logger}
	eventHook := handler.MustHook()

	rootSpec := suture.Spec{
		EventHook:        eventHook,
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}
	childSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	root := suture.New("tdoa-core", rootSpec)
	acquisition := suture.New("acquisition-layer", childSpec)
	maintenance := suture.New("maintenance-layer", childSpec)
	serving := suture.New("serving-layer", childSpec)

	root.Add(acquisition)
	root.Add(maintenance)
	root.Add(serving)

	return &SupervisorTree{
		root:        root,
		acquisition: acquisition,
		maintenance: maintenance,
		serving:     serving,
		logger:      logger,
		config:      config,
	}, nil
}

// Root returns the root supervisor for direct access if needed.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// AddAcquisitionService adds a service to the acquisition layer supervisor.
// Use this for the device streaming producer.
func (t *SupervisorTree) AddAcquisitionService(svc suture.Service) suture.ServiceToken {
	return t.acquisition.Add(svc)
}

// AddMaintenanceService adds a service to the maintenance layer supervisor.
// Use this for database maintenance, the report scheduler, and the
// node-metrics producer.
func (t *SupervisorTree) AddMaintenanceService(svc suture.Service) suture.ServiceToken {
	return t.maintenance.Add(svc)
}

// AddServingService adds a service to the serving layer supervisor.
// Use this for the tile HTTP server and the tile downloader pool.
func (t *SupervisorTree) AddServingService(svc suture.Service) suture.ServiceToken {
	return t.serving.Add(svc)
}

// RemoveMaintenanceService removes a service previously added with
// AddMaintenanceService.
func (t *SupervisorTree) RemoveMaintenanceService(token suture.ServiceToken) error {
	return t.maintenance.Remove(token)
}

// Serve starts the supervisor tree and blocks until the context is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the supervisor tree in a background goroutine.
// Returns a channel that receives the error (or nil) when the supervisor stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport returns information about services that failed to
// stop within the configured shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}

// Remove removes a service added directly to the root supervisor by its
// token. Tokens returned by the Add*Service methods belong to the layer
// supervisors and are not found by this call.
func (t *SupervisorTree) Remove(token suture.ServiceToken) error {
	return t.root.Remove(token)
}

// RemoveAndWait removes a service and waits for it to fully stop.
func (t *SupervisorTree) RemoveAndWait(token suture.ServiceToken, timeout time.Duration) error {
	return t.root.RemoveAndWait(token, timeout)
}
