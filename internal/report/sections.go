package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/tdoa-platform/core/internal/database"
	"github.com/tdoa-platform/core/internal/query"
)

// sectionGenerator renders one named section of a report to text.
type sectionGenerator func(ctx context.Context, q *query.Facade, opts ReportOptions) (string, error)

var sectionGenerators = map[string]sectionGenerator{
	"signal_summary":      generateSignalSummary,
	"tracking_summary":    generateTrackingSummary,
	"geolocation_summary": generateGeolocationSummary,
	"frequency_analysis":  generateFrequencyAnalysis,
	"event_summary":       generateEventSummary,
}

func generateSignalSummary(ctx context.Context, q *query.Facade, opts ReportOptions) (string, error) {
	stats, err := q.SignalStatistics(ctx, opts.TimeRange, opts.FreqRangeMin, opts.FreqRangeMax)
	if err != nil {
		return "", fmt.Errorf("report: signal_summary: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Signal Summary\n")
	fmt.Fprintf(&b, "total=%d min_frequency=%.1f max_frequency=%.1f avg_power_dbm=%.2f avg_snr_db=%.2f\n",
		stats.Total, stats.MinFrequency, stats.MaxFrequency, stats.MeanPowerDBm, stats.MeanSNRDB)
	return b.String(), nil
}

func generateTrackingSummary(ctx context.Context, q *query.Facade, opts ReportOptions) (string, error) {
	if !opts.HasTrackID {
		return "", fmt.Errorf("report: tracking_summary requires track_id")
	}

	history, err := q.TrackHistory(ctx, opts.TrackID, opts.TimeRange)
	if err != nil {
		return "", fmt.Errorf("report: tracking_summary: %w", err)
	}
	path, err := q.TrackPath(ctx, opts.TrackID, opts.TimeRange)
	if err != nil {
		return "", fmt.Errorf("report: tracking_summary: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tracking Summary for %s\n", opts.TrackID)
	for _, s := range history {
		fmt.Fprintf(&b, "signal t=%s freq=%.1f power=%.2f snr=%.2f\n",
			s.Timestamp.Format("2006-01-02T15:04:05Z"), s.FreqHz, s.PowerDBm, s.SNRDB)
	}
	for _, g := range path {
		fmt.Fprintf(&b, "fix t=%s lat=%.6f lon=%.6f method=%s\n",
			g.Timestamp.Format("2006-01-02T15:04:05Z"), g.Lat, g.Lon, g.Method)
	}
	return b.String(), nil
}

func generateGeolocationSummary(ctx context.Context, q *query.Facade, opts ReportOptions) (string, error) {
	stats, err := q.GeolocationStatistics(ctx, opts.TimeRange)
	if err != nil {
		return "", fmt.Errorf("report: geolocation_summary: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Geolocation Summary\n")
	fmt.Fprintf(&b, "total=%d mean_confidence=%.3f mean_accuracy_m=%.1f\n",
		stats.Total, stats.MeanConfidence, stats.MeanAccuracyM)
	return b.String(), nil
}

const frequencyAnalysisBinSizeHz = 1.0e6

func generateFrequencyAnalysis(ctx context.Context, q *query.Facade, opts ReportOptions) (string, error) {
	if !opts.HasFreqRange {
		return "", fmt.Errorf("report: frequency_analysis requires freq_range")
	}

	bins, err := q.FrequencyDensity(ctx, opts.FreqRangeMin, opts.FreqRangeMax, frequencyAnalysisBinSizeHz)
	if err != nil {
		return "", fmt.Errorf("report: frequency_analysis: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Frequency Analysis\n")
	for _, bin := range bins {
		fmt.Fprintf(&b, "bin freq=%.1f count=%d avg_power=%.2f avg_snr=%.2f\n",
			bin.Frequency, bin.SignalCount, bin.MeanPowerDBm, bin.MeanSNRDB)
	}
	return b.String(), nil
}

const eventSummaryPageSize = 100

func generateEventSummary(ctx context.Context, q *query.Facade, opts ReportOptions) (string, error) {
	p := query.NewSearchParams()
	p.TimeRange = opts.TimeRange
	p.PageSize = eventSummaryPageSize
	p.SortBy = "timestamp"
	p.Ascending = false

	result, err := q.SearchEvents(ctx, p)
	if err != nil {
		return "", fmt.Errorf("report: event_summary: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Event Summary (most recent %d)\n", eventSummaryPageSize)
	for _, e := range result.Items {
		fmt.Fprintf(&b, "t=%s type=%s severity=%s desc=%s\n",
			e.Timestamp.Format("2006-01-02T15:04:05Z"), e.EventType, severityLabel(e.Severity), e.Description)
	}
	return b.String(), nil
}

func severityLabel(s database.EventSeverity) string {
	return s.String()
}
