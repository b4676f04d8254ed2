// Package query implements the typed search/statistics façade over
// internal/database: paginated search, per-entity statistics, related-track
// discovery, and frequency-density binning.
package query
