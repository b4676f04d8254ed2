package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tdoa-platform/core/internal/devices"
	"github.com/tdoa-platform/core/internal/metrics"
)

// sampleSize returns the on-wire byte size of one interleaved I/Q sample
// pair in buf's format.
func sampleSize(format devices.SampleFormat) int {
	switch format {
	case devices.FormatI16C:
		return 4 // two int16
	default:
		return 8 // two float32
	}
}

// newMetricsCollector returns a devices.Callback that feeds the acquisition
// loop's per-buffer counters into Prometheus. The actual I/Q samples are
// consumed by the downstream DSP/classification pipeline, which is outside
// this core's scope; this callback only observes throughput.
func newMetricsCollector() devices.CallbackFunc {
	return func(buf *devices.IQBuffer) error {
		metrics.StreamBuffersProduced.Inc()
		metrics.StreamBytesProcessed.Add(float64(buf.SampleCount * sampleSize(buf.Format)))
		if buf.SampleLoss {
			metrics.StreamBuffersDropped.Inc()
		}
		return nil
	}
}

// pollStreamMetrics periodically copies a device's StreamingMetrics
// snapshot into the byte-rate gauge until ctx is canceled.
func pollStreamMetrics(ctx context.Context, dev devices.Device, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !dev.IsOpen() {
				continue
			}
			m := dev.Metrics()
			metrics.StreamByteRate.Set(m.ByteRate)
			if m.DroppedBuffers > 0 {
				log.Debug().Uint64("dropped_buffers", m.DroppedBuffers).Msg("acquisition: buffer pool overflow observed")
			}
		}
	}
}
