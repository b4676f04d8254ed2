// Package streaming implements the producer/consumer acquisition engine
// described for the wideband receiver driver: a fixed-size arena of
// pre-allocated I/Q buffers, a single producer loop that fetches samples
// from a device, stamps them, and invokes a read-only consumer callback,
// and the running StreamingMetrics counters derived from that loop.
package streaming
