package streaming

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/tdoa-platform/core/internal/devices"
)

// ErrDeviceClosed must be returned by Fetcher.Fetch to signal that the
// underlying device has been closed; the producer loop terminates rather
// than retrying when it sees this error.
var ErrDeviceClosed = errors.New("streaming: device closed")

// newFetchBackoff builds the producer loop's transient-fetch-error backoff:
// starts at 10ms, grows by the library's default factor of 1.5 (with its
// default ±50% jitter) up to a 200ms ceiling, and never gives up (the
// loop itself decides when to stop retrying, on ErrDeviceClosed or cancel).
func newFetchBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(10*time.Millisecond),
		backoff.WithMaxInterval(200*time.Millisecond),
		backoff.WithMaxElapsedTime(0),
	)
	b.Reset()
	return b
}

// Fetcher is the narrow surface the streaming engine needs from a driver:
// pull up to len(samples) interleaved samples into buf, returning how many
// were actually written and whether the device's internal sample counter
// wrapped (signaling a sample-loss event distinct from pool exhaustion).
type Fetcher interface {
	Fetch(buf *devices.IQBuffer) (n int, wrapped bool, err error)
}

// Engine runs the single-producer acquisition loop against a Fetcher and
// delivers each filled buffer synchronously to a devices.Callback.
type Engine struct {
	mu      sync.Mutex
	running bool
	cancel  chan struct{}
	done    chan struct{}
	pool    *bufferPool
	cfg     devices.StreamingConfig
	retry   *backoff.ExponentialBackOff

	startedAt      time.Time
	droppedBuffers uint64
	callbackCount  uint64
	callbackTimeUs uint64 // cumulative, divide by callbackCount for average
	bytesDelivered uint64
}

// NewEngine allocates the buffer arena for the given configuration.
func NewEngine(cfg devices.StreamingConfig) *Engine {
	return &Engine{
		pool:  newBufferPool(MaxBufferCount, cfg.BufferCapacity, cfg.SampleFormat),
		cfg:   cfg,
		retry: newFetchBackoff(),
	}
}

// Start launches the producer loop. It returns a plain error if already
// running; receiver.Receiver checks its own active flag first (reporting
// InvalidState) and reports any error from Start as InternalError.
func (e *Engine) Start(fetcher Fetcher, cb devices.Callback) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return errors.New("streaming: already running")
	}
	e.running = true
	e.cancel = make(chan struct{})
	e.done = make(chan struct{})
	e.startedAt = time.Now()
	atomic.StoreUint64(&e.droppedBuffers, 0)
	atomic.StoreUint64(&e.callbackCount, 0)
	atomic.StoreUint64(&e.callbackTimeUs, 0)
	atomic.StoreUint64(&e.bytesDelivered, 0)
	e.retry.Reset()
	e.mu.Unlock()

	go e.run(fetcher, cb)
	return nil
}

// Stop cancels the producer loop and blocks until it has exited. It is a
// no-op if the engine is not running.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	cancel := e.cancel
	done := e.done
	e.mu.Unlock()

	close(cancel)
	<-done

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
	return nil
}

// IsRunning reports whether the producer loop is currently active.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Engine) run(fetcher Fetcher, cb devices.Callback) {
	defer close(e.done)

	for {
		select {
		case <-e.cancel:
			return
		default:
		}

		token, buf, overflowed := e.pool.acquire()
		if overflowed {
			atomic.AddUint64(&e.droppedBuffers, 1)
		}

		n, wrapped, err := fetcher.Fetch(buf)
		if err != nil {
			if errors.Is(err, ErrDeviceClosed) {
				e.pool.release(token)
				e.mu.Lock()
				e.running = false
				e.mu.Unlock()
				return
			}
			log.Error().Err(err).Msg("streaming: transient fetch error, retrying")
			e.pool.release(token)
			select {
			case <-e.cancel:
				return
			case <-time.After(e.retry.NextBackOff()):
			}
			continue
		}
		e.retry.Reset()

		buf.SampleCount = n
		buf.SampleLoss = wrapped
		buf.TimestampNs = time.Now().UnixNano()

		start := time.Now()
		cbErr := cb.OnIQ(buf)
		elapsedUs := float64(time.Since(start).Microseconds())
		if cbErr != nil {
			log.Error().Err(cbErr).Msg("streaming: consumer callback returned error")
		}

		atomic.AddUint64(&e.callbackCount, 1)
		atomic.AddUint64(&e.callbackTimeUs, uint64(elapsedUs))
		atomic.AddUint64(&e.bytesDelivered, uint64(sampleBytes(buf)))

		e.pool.release(token)
	}
}

func sampleBytes(buf *devices.IQBuffer) int {
	switch buf.Format {
	case devices.FormatI16C:
		return buf.SampleCount * 2 * 2
	default:
		return buf.SampleCount * 2 * 4
	}
}

// Metrics returns a snapshot of the running counters, with derived
// sample-rate and byte-rate figures computed against elapsed wall time
// since Start.
func (e *Engine) Metrics() devices.StreamingMetrics {
	e.mu.Lock()
	started := e.startedAt
	e.mu.Unlock()

	count := atomic.LoadUint64(&e.callbackCount)
	cbTimeUs := atomic.LoadUint64(&e.callbackTimeUs)
	bytes := atomic.LoadUint64(&e.bytesDelivered)
	dropped := atomic.LoadUint64(&e.droppedBuffers)

	elapsed := time.Since(started).Seconds()
	var sampleRate, byteRate, avgCbUs float64
	if elapsed > 0 {
		byteRate = float64(bytes) / elapsed
		sampleRate = byteRate / sampleWidth(e.cfg.SampleFormat)
	}
	if count > 0 {
		avgCbUs = float64(cbTimeUs) / float64(count)
	}

	return devices.StreamingMetrics{
		SampleRateActual:  sampleRate,
		ByteRate:          byteRate,
		DroppedBuffers:    dropped,
		CallbackCount:     count,
		AvgCallbackTimeUs: avgCbUs,
	}
}

func sampleWidth(format devices.SampleFormat) float64 {
	if format == devices.FormatI16C {
		return 4 // 2 bytes * 2 components
	}
	return 8 // 4 bytes * 2 components
}
