package tiledownloader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// remoteStats mirrors the JSON body of another tile server's GET /stats
// endpoint, used only to log what is being mirrored from.
type remoteStats struct {
	TotalTiles     int64 `json:"total_tiles"`
	CachedTiles    int64 `json:"cached_tiles"`
	RequestsServed int64 `json:"requests_served"`
}

// Synchronize mirrors another tile server's reported stats, then re-runs
// a bounded-area download against that server's own /tile endpoint as
// the fetch origin, so tiles it already has cached are copied locally
// without going back to the public OSM origin.
func (d *Downloader) Synchronize(ctx context.Context, otherServerURL string, minLat, minLon, maxLat, maxLon float64, minZoom, maxZoom int) (bool, error) {
	stats, err := fetchRemoteStats(ctx, otherServerURL)
	if err != nil {
		return false, fmt.Errorf("tiledownloader: synchronize: fetch remote stats: %w", err)
	}
	log.Info().
		Str("remote", otherServerURL).
		Int64("remote_total_tiles", stats.TotalTiles).
		Int64("remote_cached_tiles", stats.CachedTiles).
		Msg("tiledownloader: synchronizing against remote tile server")

	originalOrigin := d.originURL
	d.originURL = otherServerURL + "/tile"
	defer func() { d.originURL = originalOrigin }()

	return d.DownloadArea(ctx, minLat, minLon, maxLat, maxLon, minZoom, maxZoom, nil), nil
}

func fetchRemoteStats(ctx context.Context, baseURL string) (remoteStats, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/stats", nil)
	if err != nil {
		return remoteStats{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return remoteStats{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return remoteStats{}, fmt.Errorf("remote stats endpoint returned %s", resp.Status)
	}

	var s remoteStats
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return remoteStats{}, fmt.Errorf("decode remote stats: %w", err)
	}
	return s, nil
}
