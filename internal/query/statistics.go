package query

import (
	"context"
	"fmt"

	"github.com/tdoa-platform/core/internal/database"
)

// SignalStatistics summarizes a set of signals matched by a time range
// and/or frequency range.
type SignalStatistics struct {
	Total         int64
	MinFrequency  float64
	MaxFrequency  float64
	MeanPowerDBm  float64
	MeanSNRDB     float64
}

// GeolocationStatistics summarizes a set of geolocations matched by a time
// range.
type GeolocationStatistics struct {
	Total          int64
	MeanConfidence float64
	MeanAccuracyM  float64
}

// SignalStatistics aggregates over signals in [freqRange] ∩ [tr], using a
// Welford-style streaming mean so a very large result set never has to be
// materialized twice.
func (q *Facade) SignalStatistics(ctx context.Context, tr database.TimeRange, minFreqHz, maxFreqHz float64) (SignalStatistics, error) {
	f := database.NewFilter().TimeRange("timestamp", tr)
	if minFreqHz > 0 {
		f.Where("freq_hz >= ?", minFreqHz)
	}
	if maxFreqHz > 0 {
		f.Where("freq_hz <= ?", maxFreqHz)
	}

	signals, err := q.db.QuerySignals(ctx, f)
	if err != nil {
		return SignalStatistics{}, fmt.Errorf("query: signal statistics: %w", err)
	}
	if len(signals) == 0 {
		return SignalStatistics{}, nil
	}

	stats := SignalStatistics{
		MinFrequency: signals[0].FreqHz,
		MaxFrequency: signals[0].FreqHz,
	}
	var powerMean, snrMean welfordMean
	for _, s := range signals {
		if s.FreqHz < stats.MinFrequency {
			stats.MinFrequency = s.FreqHz
		}
		if s.FreqHz > stats.MaxFrequency {
			stats.MaxFrequency = s.FreqHz
		}
		powerMean.add(s.PowerDBm)
		snrMean.add(s.SNRDB)
	}
	stats.Total = int64(len(signals))
	stats.MeanPowerDBm = powerMean.value
	stats.MeanSNRDB = snrMean.value
	return stats, nil
}

// GeolocationStatistics aggregates over geolocations in tr.
func (q *Facade) GeolocationStatistics(ctx context.Context, tr database.TimeRange) (GeolocationStatistics, error) {
	f := database.NewFilter().TimeRange("timestamp", tr)
	geos, err := q.db.QueryGeolocations(ctx, f)
	if err != nil {
		return GeolocationStatistics{}, fmt.Errorf("query: geolocation statistics: %w", err)
	}
	if len(geos) == 0 {
		return GeolocationStatistics{}, nil
	}

	var confMean, accMean welfordMean
	for _, g := range geos {
		if g.HasConfidence {
			confMean.add(g.Confidence)
		}
		if g.HasAccuracy {
			accMean.add(g.AccuracyM)
		}
	}
	return GeolocationStatistics{
		Total:          int64(len(geos)),
		MeanConfidence: confMean.value,
		MeanAccuracyM:  accMean.value,
	}, nil
}

// welfordMean computes a running mean with mean_n = mean_{n-1} + (x -
// mean_{n-1})/n, avoiding the numerical drift of summing then dividing
// over a large, long-running accumulation.
type welfordMean struct {
	value float64
	count int64
}

func (w *welfordMean) add(x float64) {
	w.count++
	w.value += (x - w.value) / float64(w.count)
}
