// Package tilecoverage analyzes an on-disk tile cache: per-zoom coverage
// percentages, geographic bounds of what is cached, an age-weighted
// heatmap overlay, and a JSON coverage report combining both.
package tilecoverage
