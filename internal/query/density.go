package query

import (
	"context"
	"fmt"
	"math"

	"github.com/tdoa-platform/core/internal/cache"
	"github.com/tdoa-platform/core/internal/database"
)

// FrequencyBin summarizes every signal whose frequency falls in
// [Frequency, Frequency+binSize).
type FrequencyBin struct {
	Frequency    float64
	SignalCount  int64
	MeanPowerDBm float64
	MeanSNRDB    float64
}

// FrequencyDensity buckets every signal with freq_hz in [minFreqHz,
// maxFreqHz) into binSizeHz-wide bins. Bin counts are accumulated in a
// Fenwick tree local to this call; only the per-bin counts are returned, so
// no range-sum query over the histogram is offered to callers. Per-bin mean
// power/SNR use the Welford running mean.
func (q *Facade) FrequencyDensity(ctx context.Context, minFreqHz, maxFreqHz, binSizeHz float64) ([]FrequencyBin, error) {
	if binSizeHz <= 0 {
		return nil, fmt.Errorf("query: frequency density: bin size must be positive")
	}
	numBins := int(math.Ceil((maxFreqHz - minFreqHz) / binSizeHz))
	if numBins <= 0 {
		return nil, nil
	}

	f := database.NewFilter().Where("freq_hz >= ?", minFreqHz).Where("freq_hz < ?", maxFreqHz)
	signals, err := q.db.QuerySignals(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("query: frequency density: %w", err)
	}

	counts := cache.NewFenwickTree(numBins)
	powerMeans := make([]welfordMean, numBins)
	snrMeans := make([]welfordMean, numBins)

	for _, s := range signals {
		idx := int((s.FreqHz - minFreqHz) / binSizeHz)
		if idx < 0 || idx >= numBins {
			continue
		}
		counts.Update(idx, 1)
		powerMeans[idx].add(s.PowerDBm)
		snrMeans[idx].add(s.SNRDB)
	}

	bins := make([]FrequencyBin, numBins)
	for i := 0; i < numBins; i++ {
		bins[i] = FrequencyBin{
			Frequency:    minFreqHz + float64(i)*binSizeHz,
			SignalCount:  counts.Get(i),
			MeanPowerDBm: powerMeans[i].value,
			MeanSNRDB:    snrMeans[i].value,
		}
	}
	return bins, nil
}
