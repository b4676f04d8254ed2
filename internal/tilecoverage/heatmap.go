package tilecoverage

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// heatmapOversample is the pixel-grid-to-tile-grid ratio: each cached
// tile contributes to a 4x4 block of the heatmap grid so neighboring
// coverage gaps are visible at a finer resolution than the tile grid
// itself.
const heatmapOversample = 4

// decayHalfLifeHours is the age, in hours, after which a tile's
// contribution to the heatmap has decayed to 1/e of its fresh weight.
const decayHalfLifeHours = 720.0

// HeatmapCell is one weighted cell of the heatmap grid, in pixel-grid
// coordinates (scaled by heatmapOversample relative to tile coordinates).
type HeatmapCell struct {
	PixelX int     `json:"pixel_x"`
	PixelY int     `json:"pixel_y"`
	Weight float64 `json:"weight"`
}

// GenerateHeatmap walks the cached tiles at zoom z and assigns each a
// recency weight of exp(-age_hours/720), decaying from 1.0 for a
// just-fetched tile toward 0 as it ages. Each tile is expanded into a
// heatmapOversample x heatmapOversample block of pixel cells sharing its
// weight, so the returned grid has finer resolution than the raw tile
// grid.
func GenerateHeatmap(cachePath string, z int, now time.Time) ([]HeatmapCell, error) {
	var cells []HeatmapCell

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

		info, err := d.Info()
		if err != nil {
			return nil
		}
		ageHours := now.Sub(info.ModTime()).Hours()
		if ageHours < 0 {
			ageHours = 0
		}
		weight := math.Exp(-ageHours / decayHalfLifeHours)

		baseX, baseY := x*heatmapOversample, y*heatmapOversample
		for dy := 0; dy < heatmapOversample; dy++ {
			for dx := 0; dx < heatmapOversample; dx++ {
				cells = append(cells, HeatmapCell{
					PixelX: baseX + dx,
					PixelY: baseY + dy,
					Weight: weight,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tilecoverage: heatmap: %w", err)
	}
	return cells, nil
}
