package tilecoverage

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/tdoa-platform/core/internal/tiledownloader"
)

// tileFilePattern matches the on-disk layout <z>/<x>/<y>.png relative to
// a cache root.
var tileFilePattern = regexp.MustCompile(`^(\d+)/(\d+)/(\d+)\.png$`)

// ZoomCoverage reports how much of the theoretically possible tile set at
// one zoom level is actually cached.
type ZoomCoverage struct {
	Zoom            int     `json:"zoom"`
	CachedTiles     int64   `json:"cached_tiles"`
	PossibleTiles   int64   `json:"possible_tiles"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// CoverageResult is the output of AnalyzeCoverage.
type CoverageResult struct {
	ByZoom             []ZoomCoverage `json:"by_zoom"`
	TotalCachedTiles   int64          `json:"total_cached_tiles"`
	TotalPossibleTiles int64          `json:"total_possible_tiles"`
}

// possibleTilesAtZoom is the number of distinct tiles at a zoom level
// under the standard slippy-map scheme: 4^z.
func possibleTilesAtZoom(z int) int64 {
	return int64(math.Pow(4, float64(z)))
}

// AnalyzeCoverage walks cachePath counting cached tiles per zoom level.
// If zooms is non-empty, only those zoom levels are reported; otherwise
// every zoom level observed on disk is reported.
func AnalyzeCoverage(cachePath string, zooms []int) (CoverageResult, error) {
	cachedByZoom := make(map[int]int64)

	err := filepath.WalkDir(cachePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(cachePath, path)
		if relErr != nil {
			return nil
		}
		z, _, _, ok := parseTileRel(filepath.ToSlash(rel))
		if !ok {
			return nil
		}
		cachedByZoom[z]++
		return nil
	})
	if err != nil {
		return CoverageResult{}, fmt.Errorf("tilecoverage: analyze: %w", err)
	}

	considered := zooms
	if len(considered) == 0 {
		for z := range cachedByZoom {
			considered = append(considered, z)
		}
		sort.Ints(considered)
	}

	result := CoverageResult{ByZoom: make([]ZoomCoverage, 0, len(considered))}
	for _, z := range considered {
		cached := cachedByZoom[z]
		possible := possibleTilesAtZoom(z)
		var pct float64
		if possible > 0 {
			pct = 100.0 * float64(cached) / float64(possible)
		}
		result.ByZoom = append(result.ByZoom, ZoomCoverage{
			Zoom:            z,
			CachedTiles:     cached,
			PossibleTiles:   possible,
			CoveragePercent: pct,
		})
		result.TotalCachedTiles += cached
		result.TotalPossibleTiles += possible
	}
	return result, nil
}

// Bounds is a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// GetBounds returns the geographic bounding box covered by cached tiles
// at zoom z, or ok=false if no tiles are cached at that zoom.
func GetBounds(cachePath string, z int) (Bounds, bool, error) {
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	found := false

	zoomDir := filepath.Join(cachePath, strconv.Itoa(z))
	err := filepath.WalkDir(zoomDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(cachePath, path)
		if relErr != nil {
			return nil
		}
		gotZ, x, y, ok := parseTileRel(filepath.ToSlash(rel))
		if !ok || gotZ != z {
			return nil
		}
		found = true
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
		return nil
	})
	if err != nil {
		return Bounds{}, false, fmt.Errorf("tilecoverage: bounds: %w", err)
	}
	if !found {
		return Bounds{}, false, nil
	}

	// The top-left (minX, minY) tile's north/west edges and the
	// bottom-right (maxX, maxY) tile's south/east edges bound every
	// cached tile in between.
	_, topLonMin, topLatMax, _ := tiledownloader.TileBounds(z, minX, minY)
	bottomLatMin, _, _, bottomLonMax := tiledownloader.TileBounds(z, maxX, maxY)

	return Bounds{
		MinLat: bottomLatMin,
		MinLon: topLonMin,
		MaxLat: topLatMax,
		MaxLon: bottomLonMax,
	}, true, nil
}

func parseTileRel(rel string) (z, x, y int, ok bool) {
	m := tileFilePattern.FindStringSubmatch(rel)
	if m == nil {
		return 0, 0, 0, false
	}
	z, err1 := strconv.Atoi(m[1])
	x, err2 := strconv.Atoi(m[2])
	y, err3 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return z, x, y, true
}
