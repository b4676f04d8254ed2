package tiledownloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/tdoa-platform/core/internal/cache"
	"github.com/tdoa-platform/core/internal/metrics"
	"github.com/tdoa-platform/core/internal/tilecache"
)

// newTransportBackoff builds a worker's post-failure retry backoff: starts
// at 10ms, grows by the library's default factor of 1.5 (with its default
// ±50% jitter) up to a 1s ceiling, matching the acquisition loop's
// transient-error cadence elsewhere in the platform but capped higher since
// a stalled origin shouldn't spin a worker at its fastest rate indefinitely.
func newTransportBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(10*time.Millisecond),
		backoff.WithMaxInterval(time.Second),
		backoff.WithMaxElapsedTime(0),
	)
	b.Reset()
	return b
}

// errEmptyPayload labels the failure metric when an origin responds
// without error but with no bytes.
var errEmptyPayload = errors.New("tiledownloader: empty payload")

// idlePollDelay is the pause a worker takes when the queue is empty.
const idlePollDelay = 10 * time.Millisecond

// Stats exposes running counters for the downloader.
type Stats struct {
	Fetched  int64
	Failed   int64
	Deduped  int64
	Enqueued int64
}

// Downloader runs a bounded pool of workers pulling jobs from a Queue,
// fetching tile bytes from a single origin, and writing them into a
// tilecache.Store.
type Downloader struct {
	originURL string
	store     *tilecache.Store
	queue     *Queue
	workers   int
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[[]byte]
	dedup     *cache.BloomLRU
	limiter   *rate.Limiter

	stopCh chan struct{}
	wg     sync.WaitGroup

	stats Stats
}

// New builds a Downloader fetching from originURL (e.g.
// "https://tile.openstreetmap.org") with the given worker count. Origin
// fetches are unpaced; WithRateLimit sets a pool-wide fetch rate.
func New(originURL string, store *tilecache.Store, workers int, requestTimeout time.Duration) *Downloader {
	if workers <= 0 {
		workers = 4
	}
	return &Downloader{
		originURL: originURL,
		store:     store,
		queue:     NewQueue(),
		workers:   workers,
		client:    &http.Client{Timeout: requestTimeout},
		breaker:   newBreaker(DefaultBreakerConfig("tile-origin")),
		dedup:     cache.NewBloomLRU(4096, time.Minute, 0.01),
		limiter:   rate.NewLimiter(rate.Inf, 1),
		stopCh:    make(chan struct{}),
	}
}

// WithRateLimit paces origin fetches to at most requestsPerSec, bursting
// by one request. A non-positive value leaves fetches unpaced.
func (d *Downloader) WithRateLimit(requestsPerSec float64) *Downloader {
	if requestsPerSec > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(requestsPerSec), 1)
	}
	return d
}

// Enqueue adds a job to the queue, skipping it if an identical job was
// enqueued too recently to have been served yet.
func (d *Downloader) Enqueue(job Job) {
	key := fmt.Sprintf("%d/%d/%d", job.Z, job.X, job.Y)
	if d.dedup.IsDuplicate(key) {
		atomic.AddInt64(&d.stats.Deduped, 1)
		return
	}
	d.dedup.Record(key)
	atomic.AddInt64(&d.stats.Enqueued, 1)
	d.queue.Push(job)
	metrics.DownloaderQueueDepth.Set(float64(d.queue.Len()))
}

// breakerState maps the circuit breaker's state to the Prometheus gauge
// contract: 0=closed, 1=half-open, 2=open.
func (d *Downloader) breakerState() int {
	switch d.breaker.State() {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// Start launches the worker pool. Workers run until Stop is called.
func (d *Downloader) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
}

// Stop signals every worker to exit at its next dequeue or idle wake and
// blocks until they have done so.
func (d *Downloader) Stop() {
	close(d.stopCh)
	d.wg.Wait()
}

func (d *Downloader) worker(ctx context.Context) {
	defer d.wg.Done()
	retry := newTransportBackoff()
	for {
		select {
		case <-d.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		job, ok := d.queue.Pop()
		if !ok {
			select {
			case <-d.stopCh:
				return
			case <-ctx.Done():
				return
			case <-time.After(idlePollDelay):
				continue
			}
		}

		data, err := d.fetchOrigin(ctx, job.Z, job.X, job.Y)
		metrics.DownloaderCircuitState.Set(float64(d.breakerState()))
		if err != nil || len(data) == 0 {
			atomic.AddInt64(&d.stats.Failed, 1)
			metrics.RecordTileFetch(emptyPayloadErr(err))
			log.Warn().Err(err).Int("z", job.Z).Int("x", job.X).Int("y", job.Y).Msg("tiledownloader: fetch failed")
			time.Sleep(retry.NextBackOff())
			continue
		}

		if err := d.store.Put(job.Z, job.X, job.Y, data); err != nil {
			log.Error().Err(err).Msg("tiledownloader: store write failed")
			atomic.AddInt64(&d.stats.Failed, 1)
			metrics.RecordTileFetch(err)
			continue
		}
		retry.Reset()
		atomic.AddInt64(&d.stats.Fetched, 1)
		metrics.RecordTileFetch(nil)
		metrics.DownloaderQueueDepth.Set(float64(d.queue.Len()))
	}
}

// emptyPayloadErr normalizes a nil error alongside a zero-length payload
// into a labeled error for metrics, since that failure mode never
// surfaces as a transport error.
func emptyPayloadErr(err error) error {
	if err != nil {
		return err
	}
	return errEmptyPayload
}

func (d *Downloader) fetchOrigin(ctx context.Context, z, x, y int) ([]byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return d.breaker.Execute(func() ([]byte, error) {
		url := fmt.Sprintf("%s/%d/%d/%d.png", d.originURL, z, x, y)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := d.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("tiledownloader: origin returned %s for %s", resp.Status, url)
		}
		return io.ReadAll(resp.Body)
	})
}

// Snapshot returns a copy of the current counters.
func (d *Downloader) Snapshot() Stats {
	return Stats{
		Fetched:  atomic.LoadInt64(&d.stats.Fetched),
		Failed:   atomic.LoadInt64(&d.stats.Failed),
		Deduped:  atomic.LoadInt64(&d.stats.Deduped),
		Enqueued: atomic.LoadInt64(&d.stats.Enqueued),
	}
}
