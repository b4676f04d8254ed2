package streaming

import "github.com/tdoa-platform/core/internal/devices"

// MaxBufferCount is the fixed arena size for pre-allocated I/Q buffers.
const MaxBufferCount = 32

// BufferToken references a buffer owned by the arena. It is valid only for
// the lifetime of the producer's callback invocation that handed it out;
// consumers must not retain a token or the buffer it names past that call.
type BufferToken int

// bufferPool is an arena-indexed pool of pre-allocated devices.IQBuffer
// values. Acquire/Release are safe for the single-producer usage pattern
// the engine drives them with; Acquire never blocks — on exhaustion it
// allocates a transient, out-of-arena buffer instead.
type bufferPool struct {
	buffers []*devices.IQBuffer
	free    chan int
	format  devices.SampleFormat
	capacity int
}

func newBufferPool(count, capacity int, format devices.SampleFormat) *bufferPool {
	p := &bufferPool{
		buffers:  make([]*devices.IQBuffer, count),
		free:     make(chan int, count),
		format:   format,
		capacity: capacity,
	}
	for i := 0; i < count; i++ {
		p.buffers[i] = newIQBuffer(format, capacity)
		p.free <- i
	}
	return p
}

func newIQBuffer(format devices.SampleFormat, capacity int) *devices.IQBuffer {
	buf := &devices.IQBuffer{Format: format}
	switch format {
	case devices.FormatI16C:
		buf.Int16Samples = make([]int16, capacity*2)
	default:
		buf.Float32Samples = make([]float32, capacity*2)
	}
	return buf
}

// acquire returns a buffer and its arena token (or -1 if the arena was
// exhausted and a transient buffer was allocated instead), plus whether
// the allocation represents a dropped-pacing event.
func (p *bufferPool) acquire() (token int, buf *devices.IQBuffer, overflowed bool) {
	select {
	case idx := <-p.free:
		buf := p.buffers[idx]
		buf.SampleCount = 0
		buf.TriggerOffsets = buf.TriggerOffsets[:0]
		buf.SampleLoss = false
		return idx, buf, false
	default:
		return -1, newIQBuffer(p.format, p.capacity), true
	}
}

// release returns a pool-owned buffer to the free list. Transient buffers
// (token == -1) are simply dropped for the garbage collector.
func (p *bufferPool) release(token int) {
	if token < 0 {
		return
	}
	select {
	case p.free <- token:
	default:
		// Arena is already full; should not happen under single-producer
		// discipline, but never block the producer on a release.
	}
}
