package tileserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/tdoa-platform/core/internal/metrics"
	"github.com/tdoa-platform/core/internal/middleware"
	"github.com/tdoa-platform/core/internal/tilecache"
	"github.com/tdoa-platform/core/internal/tiledownloader"
)

// Server is the HTTP tile API: GET /tile/{z}/{x}/{y}, GET /stats and
// GET /metrics.
type Server struct {
	store      *tilecache.Store
	index      *tilecache.Index
	downloader *tiledownloader.Downloader
	limiter    *RateLimiter
	stats      *statsTracker

	httpServer *http.Server

	sweepInterval time.Duration
	tileMaxAge    time.Duration
	stopSweep     chan struct{}
}

// Config configures a Server.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	SweepInterval      time.Duration
	TileMaxAge         time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
}

// New builds a Server over store, backed by downloader for cache misses.
func New(cfg Config, store *tilecache.Store, index *tilecache.Index, downloader *tiledownloader.Downloader) *Server {
	s := &Server{
		store:         store,
		index:         index,
		downloader:    downloader,
		limiter:       NewRateLimiter(cfg.RateLimitPerMinute),
		stats:         &statsTracker{},
		sweepInterval: cfg.SweepInterval,
		tileMaxAge:    cfg.TileMaxAge,
		stopSweep:     make(chan struct{}),
	}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return middleware.RequestID(next.ServeHTTP)
	})
	router.Use(func(next http.Handler) http.Handler {
		return middleware.PrometheusMetrics(next.ServeHTTP)
	})
	router.Use(func(next http.Handler) http.Handler {
		return middleware.Compression(next.ServeHTTP)
	})
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}))
	// Coarse per-second burst guard ahead of the rolling one-minute budget
	// enforced inside handleTile.
	router.Use(httprate.LimitByIP(20, time.Second))

	router.Get("/tile/{z}/{x}/{y}", s.handleTile)
	router.Get("/stats", s.handleStats)
	router.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the server's root http.Handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving HTTP and the background sweep loop. It blocks
// until the listener fails or Shutdown is called, at which point it
// returns http.ErrServerClosed.
func (s *Server) Start() error {
	go s.sweepLoop()
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the sweep loop and gracefully drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stopSweep)
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) sweepLoop() {
	if s.sweepInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopSweep:
			return
		case <-ticker.C:
			removed, err := s.store.Sweep(s.tileMaxAge)
			if err != nil {
				log.Error().Err(err).Msg("tileserver: sweep failed")
				continue
			}
			for _, coord := range removed {
				s.downloader.Enqueue(tiledownloader.Job{Z: coord.Z, X: coord.X, Y: coord.Y, Priority: false})
			}
			if len(removed) > 0 {
				metrics.TileCacheEvictions.Add(float64(len(removed)))
				log.Info().Int("count", len(removed)).Msg("tileserver: sweep re-enqueued stale tiles")
			}
			if _, totalBytes, err := s.store.DiskStats(); err == nil {
				metrics.TileCacheBytesOnDisk.Set(float64(totalBytes))
			}
		}
	}
}
