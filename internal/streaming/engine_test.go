package streaming

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdoa-platform/core/internal/devices"
)

type fakeFetcher struct {
	callCount int64
}

func (f *fakeFetcher) Fetch(buf *devices.IQBuffer) (int, bool, error) {
	atomic.AddInt64(&f.callCount, 1)
	for i := range buf.Float32Samples {
		buf.Float32Samples[i] = 0
	}
	return len(buf.Float32Samples) / 2, false, nil
}

func TestEngine_StartStopLifecycle(t *testing.T) {
	cfg := devices.StreamingConfig{SampleFormat: devices.FormatF32C, BufferCapacity: 1024}
	engine := NewEngine(cfg)
	fetcher := &fakeFetcher{}

	var delivered int64
	cb := devices.CallbackFunc(func(buf *devices.IQBuffer) error {
		atomic.AddInt64(&delivered, 1)
		return nil
	})

	require.NoError(t, engine.Start(fetcher, cb))
	assert.True(t, engine.IsRunning())

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, engine.Stop())

	assert.False(t, engine.IsRunning())
	assert.Greater(t, atomic.LoadInt64(&delivered), int64(0))
}

func TestEngine_StartTwiceReturnsError(t *testing.T) {
	cfg := devices.StreamingConfig{SampleFormat: devices.FormatF32C, BufferCapacity: 256}
	engine := NewEngine(cfg)
	fetcher := &fakeFetcher{}
	cb := devices.CallbackFunc(func(*devices.IQBuffer) error { return nil })

	require.NoError(t, engine.Start(fetcher, cb))
	defer engine.Stop()

	assert.Error(t, engine.Start(fetcher, cb))
}

func TestEngine_DeviceClosedStopsLoopWithoutExternalStop(t *testing.T) {
	cfg := devices.StreamingConfig{SampleFormat: devices.FormatF32C, BufferCapacity: 128}
	engine := NewEngine(cfg)

	fetcher := &closedAfterNFetcher{n: 3}
	cb := devices.CallbackFunc(func(*devices.IQBuffer) error { return nil })

	require.NoError(t, engine.Start(fetcher, cb))

	deadline := time.Now().Add(time.Second)
	for engine.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.False(t, engine.IsRunning())
}

type closedAfterNFetcher struct{ n int }

func (f *closedAfterNFetcher) Fetch(buf *devices.IQBuffer) (int, bool, error) {
	f.n--
	if f.n <= 0 {
		return 0, false, ErrDeviceClosed
	}
	return len(buf.Float32Samples) / 2, false, nil
}

func TestBufferPool_AcquireReleaseRoundTrip(t *testing.T) {
	pool := newBufferPool(2, 64, devices.FormatF32C)

	tok1, buf1, overflow1 := pool.acquire()
	assert.False(t, overflow1)
	assert.NotNil(t, buf1)

	tok2, _, overflow2 := pool.acquire()
	assert.False(t, overflow2)

	_, _, overflow3 := pool.acquire()
	assert.True(t, overflow3, "third acquire on a 2-buffer pool should overflow")

	pool.release(tok1)
	pool.release(tok2)
}
