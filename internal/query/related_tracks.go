package query

import (
	"context"
	"fmt"
	"time"

	"github.com/tdoa-platform/core/internal/database"
)

// FindRelatedTracks computes the target track's time/frequency envelope,
// expands it by freqTolHz and timeTolS, scans signals in the expanded
// envelope, and returns the distinct track_ids found there other than
// trackID itself.
func (q *Facade) FindRelatedTracks(ctx context.Context, trackID string, freqTolHz float64, timeTolS float64) ([]string, error) {
	trackSignals, err := q.db.GetTrackSignals(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("query: find related tracks: %w", err)
	}
	if len(trackSignals) == 0 {
		return nil, nil
	}

	minFreq, maxFreq := trackSignals[0].FreqHz, trackSignals[0].FreqHz
	minTime, maxTime := trackSignals[0].Timestamp, trackSignals[0].Timestamp
	for _, s := range trackSignals[1:] {
		if s.FreqHz < minFreq {
			minFreq = s.FreqHz
		}
		if s.FreqHz > maxFreq {
			maxFreq = s.FreqHz
		}
		if s.Timestamp.Before(minTime) {
			minTime = s.Timestamp
		}
		if s.Timestamp.After(maxTime) {
			maxTime = s.Timestamp
		}
	}

	expandedFreqMin := minFreq - freqTolHz
	expandedFreqMax := maxFreq + freqTolHz
	tolDuration := time.Duration(timeTolS * float64(time.Second))
	expandedTimeMin := minTime.Add(-tolDuration)
	expandedTimeMax := maxTime.Add(tolDuration)

	f := database.NewFilter().
		Where("freq_hz >= ?", expandedFreqMin).
		Where("freq_hz <= ?", expandedFreqMax).
		TimeRange("timestamp", database.TimeRange{Start: expandedTimeMin, End: expandedTimeMax})

	candidates, err := q.db.QuerySignals(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("query: find related tracks: %w", err)
	}

	seen := map[string]bool{trackID: true}
	var related []string
	for _, s := range candidates {
		if !s.HasTrackID || seen[s.TrackID] {
			continue
		}
		seen[s.TrackID] = true
		related = append(related, s.TrackID)
	}
	return related, nil
}
