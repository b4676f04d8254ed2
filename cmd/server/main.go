// Command server runs the TDOA direction-finding platform's core node:
// device acquisition, the embedded signal store, templated reporting, and
// the map tile cache and server, all under a single suture supervisor
// tree.
//
// The server handles graceful shutdown on SIGINT and SIGTERM.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tdoa-platform/core/internal/config"
	"github.com/tdoa-platform/core/internal/database"
	"github.com/tdoa-platform/core/internal/logging"
	"github.com/tdoa-platform/core/internal/query"
	"github.com/tdoa-platform/core/internal/report"
	"github.com/tdoa-platform/core/internal/supervisor"
	"github.com/tdoa-platform/core/internal/supervisor/services"
	"github.com/tdoa-platform/core/internal/tilecache"
	"github.com/tdoa-platform/core/internal/tiledownloader"
	"github.com/tdoa-platform/core/internal/tileserver"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		log.Fatal().Err(err).Msg("config: load failed")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config: invalid")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(ctx, cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("database: open failed")
	}
	defer func() {
		if cfg.Database.CheckpointOnClose {
			if err := db.Vacuum(context.Background()); err != nil {
				log.Warn().Err(err).Msg("database: checkpoint-on-close vacuum failed")
			}
		}
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("database: close failed")
		}
	}()

	facade := query.New(db)
	reportEngine := report.NewEngine(facade)
	scheduler := report.NewScheduler(reportEngine)

	dev, err := openDevice(ctx, cfg.Device, cfg.Streaming)
	if err != nil {
		log.Fatal().Err(err).Msg("device: init failed")
	}
	defer dev.Close()

	store := tilecache.NewStore(cfg.TileCache.RootDir, cfg.TileCache.CompressTiles)
	index, closeIndex, err := tilecache.OpenPersistentIndex(cfg.TileCache.IndexPath, 100_000)
	if err != nil {
		log.Fatal().Err(err).Msg("tilecache: index open failed")
	}
	defer func() {
		if err := closeIndex(); err != nil {
			log.Warn().Err(err).Msg("tilecache: index close failed")
		}
	}()

	downloader := tiledownloader.New(cfg.Downloader.OriginURL, store, cfg.Downloader.Workers, cfg.Downloader.RequestTimeout).
		WithRateLimit(cfg.Downloader.RequestsPerSec)

	tileSrv := tileserver.New(tileserver.Config{
		Addr:               cfg.TileServer.Host + ":" + strconv.Itoa(cfg.TileServer.Port),
		RateLimitPerMinute: cfg.TileServer.RateLimitPerMin,
		SweepInterval:      cfg.TileCache.SweepInterval,
		TileMaxAge:         cfg.TileCache.MaxAge,
		ReadTimeout:        cfg.TileServer.ReadTimeout,
		WriteTimeout:       cfg.TileServer.WriteTimeout,
		CORSAllowedOrigins: cfg.TileServer.CORSAllowedOrigins,
	}, store, index, downloader)

	bus, nodeProducer := initEventBus(cfg.EventBus, localNodeID())
	if bus != nil {
		defer bus.Close()
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("supervisor: build failed")
	}

	tree.AddAcquisitionService(services.NewAcquisitionService(dev, newMetricsCollector()))
	go pollStreamMetrics(ctx, dev, time.Second)

	tree.AddMaintenanceService(services.NewDBMaintenanceService(db, cfg.Database.MaintenanceWindow))
	tree.AddMaintenanceService(services.NewReportSchedulerService(scheduler, nil, cfg.Report.ScheduleTick))
	if nodeProducer != nil {
		tree.AddMaintenanceService(nodeProducer)
	}

	tree.AddServingService(services.NewDownloaderService(downloader))
	tree.AddServingService(services.NewTileServerService(tileSrv, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	log.Info().Msg("starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		log.Info().Msg("context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		log.Warn().Int("count", len(unstopped)).Msg("services failed to stop within timeout")
		for _, svc := range unstopped {
			log.Warn().Str("service", svc.Name).Msg("service failed to stop")
		}
	}

	log.Info().Msg("server stopped gracefully")
}
