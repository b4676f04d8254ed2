package tileserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/tdoa-platform/core/internal/metrics"
	"github.com/tdoa-platform/core/internal/tiledownloader"
)

// missPollDelay is how long the tile handler waits for a single re-check
// of the cache after enqueuing a download, before giving up and
// returning 404. It is not meant to make the download complete in time
// for busy origins; it only catches tiles that were already mid-flight.
const missPollDelay = 50 * time.Millisecond

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	z, x, y, ok := parseTileParams(r)
	if !ok {
		http.Error(w, "invalid tile coordinates", http.StatusBadRequest)
		return
	}

	clientKey := r.RemoteAddr
	if !s.limiter.Allow(clientKey) {
		metrics.TileServerRateLimited.Inc()
		metrics.RecordTileRequest(http.StatusTooManyRequests, time.Since(start))
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	if s.serveFromCache(w, z, x, y, start) {
		return
	}

	s.downloader.Enqueue(tiledownloader.Job{Z: z, X: x, Y: y, Priority: true})
	time.Sleep(missPollDelay)

	if s.serveFromCache(w, z, x, y, start) {
		return
	}

	s.stats.recordRequest(false, time.Since(start))
	metrics.TileCacheMisses.Inc()
	metrics.RecordTileRequest(http.StatusNotFound, time.Since(start))
	http.Error(w, "tile not cached", http.StatusNotFound)
}

func (s *Server) serveFromCache(w http.ResponseWriter, z, x, y int, start time.Time) bool {
	data, ok, err := s.store.Get(z, x, y)
	if err != nil {
		log.Error().Err(err).Msg("tileserver: cache read failed")
		return false
	}
	if !ok {
		return false
	}

	s.index.Touch(z, x, y, time.Now())
	s.stats.recordRequest(true, time.Since(start))
	metrics.TileCacheHits.Inc()
	metrics.RecordTileRequest(http.StatusOK, time.Since(start))
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
	return true
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.stats.snapshot(s.store)
	if err != nil {
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func parseTileParams(r *http.Request) (z, x, y int, ok bool) {
	z, err1 := strconv.Atoi(chi.URLParam(r, "z"))
	x, err2 := strconv.Atoi(chi.URLParam(r, "x"))
	y, err3 := strconv.Atoi(strings.TrimSuffix(chi.URLParam(r, "y"), ".png"))
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return z, x, y, true
}
