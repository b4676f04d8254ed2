package query

import (
	"context"
	"fmt"

	"github.com/tdoa-platform/core/internal/database"
)

const (
	defaultPageSize  = 100
	defaultSortBy    = "timestamp"
	defaultAscending = true
)

// SearchParams is the common shape every search_* entry point accepts:
// a time window, free-form equality filters, and pagination/sort
// controls with the package defaults applied by NewSearchParams.
type SearchParams struct {
	TimeRange  database.TimeRange
	Equals     map[string]any
	PageSize   int
	PageNumber int
	SortBy     string
	Ascending  bool
}

// NewSearchParams returns a SearchParams with page_size=100,
// page_number=0, sort_by="timestamp", ascending=true.
func NewSearchParams() SearchParams {
	return SearchParams{
		PageSize:   defaultPageSize,
		SortBy:     defaultSortBy,
		Ascending:  defaultAscending,
		Equals:     map[string]any{},
	}
}

// SearchResult is the uniform pagination envelope every search_* entry
// point returns.
type SearchResult[T any] struct {
	Items       []T
	TotalCount  int64
	PageCount   int64
	CurrentPage int64
	HasNext     bool
	HasPrev     bool
}

func buildResult[T any](items []T, total int64, p SearchParams) SearchResult[T] {
	pageSize := int64(p.PageSize)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pageCount := (total + pageSize - 1) / pageSize
	current := int64(p.PageNumber)

	return SearchResult[T]{
		Items:       items,
		TotalCount:  total,
		PageCount:   pageCount,
		CurrentPage: current,
		HasNext:     current+1 < pageCount,
		HasPrev:     current > 0,
	}
}

func (p SearchParams) filter(timeColumn string, sortable map[string]bool) *database.Filter {
	f := database.NewFilter().TimeRange(timeColumn, p.TimeRange)
	for col, val := range p.Equals {
		if sortable[col] || col == "track_id" || col == "node_id" {
			f.Where(fmt.Sprintf("%s = ?", col), val)
		}
	}
	sortBy := p.SortBy
	if sortBy == "" || !sortable[sortBy] {
		sortBy = defaultSortBy
		if !sortable[sortBy] {
			sortBy = ""
		}
	}
	if sortBy != "" {
		f.OrderBy(sortBy, !p.Ascending)
	}
	f.Page(p.PageNumber, p.PageSize)
	return f
}

// SearchSignals paginates and sorts signals per p.
func (q *Facade) SearchSignals(ctx context.Context, p SearchParams) (SearchResult[*database.SignalRecord], error) {
	countFilter := p.filter("timestamp", signalSortColumns)
	total, err := q.db.CountSignals(ctx, countFilter)
	if err != nil {
		return SearchResult[*database.SignalRecord]{}, err
	}

	items, err := q.db.QuerySignals(ctx, p.filter("timestamp", signalSortColumns))
	if err != nil {
		return SearchResult[*database.SignalRecord]{}, err
	}
	return buildResult(items, total, p), nil
}

// SearchGeolocations paginates and sorts geolocations per p.
func (q *Facade) SearchGeolocations(ctx context.Context, p SearchParams) (SearchResult[*database.GeolocationRecord], error) {
	sortable := map[string]bool{"timestamp": true, "lat": true, "lon": true, "created_at": true}
	total, err := q.db.CountGeolocations(ctx, p.filter("timestamp", sortable))
	if err != nil {
		return SearchResult[*database.GeolocationRecord]{}, err
	}
	items, err := q.db.QueryGeolocations(ctx, p.filter("timestamp", sortable))
	if err != nil {
		return SearchResult[*database.GeolocationRecord]{}, err
	}
	return buildResult(items, total, p), nil
}

// SearchEvents paginates and sorts events per p.
func (q *Facade) SearchEvents(ctx context.Context, p SearchParams) (SearchResult[*database.EventRecord], error) {
	sortable := map[string]bool{"timestamp": true, "severity": true, "created_at": true}
	total, err := q.db.CountEvents(ctx, p.filter("timestamp", sortable))
	if err != nil {
		return SearchResult[*database.EventRecord]{}, err
	}
	items, err := q.db.QueryEvents(ctx, p.filter("timestamp", sortable))
	if err != nil {
		return SearchResult[*database.EventRecord]{}, err
	}
	return buildResult(items, total, p), nil
}

// SearchReports paginates and sorts reports per p.
func (q *Facade) SearchReports(ctx context.Context, p SearchParams) (SearchResult[*database.ReportRecord], error) {
	sortable := map[string]bool{"generated_at": true, "created_at": true}
	total, err := q.db.CountReports(ctx, p.filter("generated_at", sortable))
	if err != nil {
		return SearchResult[*database.ReportRecord]{}, err
	}
	items, err := q.db.QueryReports(ctx, p.filter("generated_at", sortable))
	if err != nil {
		return SearchResult[*database.ReportRecord]{}, err
	}
	return buildResult(items, total, p), nil
}

// TrackHistory returns every signal for trackID ascending by time,
// optionally bounded by tr.
func (q *Facade) TrackHistory(ctx context.Context, trackID string, tr database.TimeRange) ([]*database.SignalRecord, error) {
	f := database.NewFilter().Where("track_id = ?", trackID).TimeRange("timestamp", tr).OrderBy("timestamp", false)
	return q.db.QuerySignals(ctx, f)
}

// TrackPath returns every geolocation for trackID ascending by time,
// optionally bounded by tr.
func (q *Facade) TrackPath(ctx context.Context, trackID string, tr database.TimeRange) ([]*database.GeolocationRecord, error) {
	f := database.NewFilter().Where("track_id = ?", trackID).TimeRange("timestamp", tr).OrderBy("timestamp", false)
	return q.db.QueryGeolocations(ctx, f)
}

// signalSortColumns mirrors database's whitelist so the façade never
// forwards an unvalidated sort column into SQL.
var signalSortColumns = map[string]bool{
	"timestamp": true, "freq_hz": true, "power_dbm": true, "snr_db": true, "created_at": true,
}
