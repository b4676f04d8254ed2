package tilecoverage

import "fmt"

// ZoomReport is one zoom level's entry in a CoverageReport, combining its
// coverage percentage with the geographic extent of what is cached.
type ZoomReport struct {
	ZoomCoverage
	Bounds *Bounds `json:"bounds,omitempty"`
}

// CoverageReport is the JSON body produced by GenerateCoverageReport.
type CoverageReport struct {
	TotalCachedTiles   int64        `json:"total_cached_tiles"`
	TotalPossibleTiles int64        `json:"total_possible_tiles"`
	ByZoom             []ZoomReport `json:"by_zoom"`
}

// GenerateCoverageReport combines AnalyzeCoverage and GetBounds into a
// single report: per-zoom coverage percentages plus the geographic
// bounding box of whatever is cached at that zoom.
func GenerateCoverageReport(cachePath string, zooms []int) (CoverageReport, error) {
	analysis, err := AnalyzeCoverage(cachePath, zooms)
	if err != nil {
		return CoverageReport{}, fmt.Errorf("tilecoverage: report: %w", err)
	}

	report := CoverageReport{
		TotalCachedTiles:   analysis.TotalCachedTiles,
		TotalPossibleTiles: analysis.TotalPossibleTiles,
		ByZoom:             make([]ZoomReport, 0, len(analysis.ByZoom)),
	}

	for _, zc := range analysis.ByZoom {
		entry := ZoomReport{ZoomCoverage: zc}
		if zc.CachedTiles > 0 {
			bounds, ok, err := GetBounds(cachePath, zc.Zoom)
			if err != nil {
				return CoverageReport{}, fmt.Errorf("tilecoverage: report: bounds for zoom %d: %w", zc.Zoom, err)
			}
			if ok {
				entry.Bounds = &bounds
			}
		}
		report.ByZoom = append(report.ByZoom, entry)
	}
	return report, nil
}
