package devices

import (
	"context"
	"fmt"
)

// ResultCode classifies the outcome of a Device operation. Every Device
// method other than Metrics/IsOpen returns one wrapped in an
// *OperationError (or nil on success) instead of unwinding.
type ResultCode int

const (
	Success ResultCode = iota
	DeviceNotFound
	DeviceNotOpen
	InvalidParameter
	InvalidState
	HardwareError
	InternalError
)

func (c ResultCode) String() string {
	switch c {
	case Success:
		return "Success"
	case DeviceNotFound:
		return "DeviceNotFound"
	case DeviceNotOpen:
		return "DeviceNotOpen"
	case InvalidParameter:
		return "InvalidParameter"
	case InvalidState:
		return "InvalidState"
	case HardwareError:
		return "HardwareError"
	case InternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// OperationError is the error value returned by Device methods. Code
// classifies the failure for callers that branch on it; Err, if set,
// carries the underlying cause.
type OperationError struct {
	Code ResultCode
	Op   string
	Err  error
}

func (e *OperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *OperationError) Unwrap() error { return e.Err }

func opErr(op string, code ResultCode, err error) error {
	return &OperationError{Op: op, Code: code, Err: err}
}

// SampleFormat is the wire representation of a single I/Q sample.
type SampleFormat int

const (
	FormatF32C SampleFormat = iota // interleaved float32 real/imag pairs
	FormatI16C                     // interleaved int16 real/imag pairs
)

// DeviceModel enumerates the receiver hardware families this core knows
// how to talk to.
type DeviceModel int

const (
	ModelNone DeviceModel = iota
	ModelBB60A
	ModelBB60C
	ModelBB60D
)

// Capabilities describes the fixed, per-serial-number acquisition envelope
// of a device. It never changes after Open.
type Capabilities struct {
	FreqMinHz             float64
	FreqMaxHz             float64
	MaxBandwidthHz        float64
	MaxSampleRateHz       float64
	SupportedSampleFormats []SampleFormat
	TimeStampingSupported bool
	TriggerIOSupported    bool
}

// DeviceInfo describes an enumerable or opened device.
type DeviceInfo struct {
	Serial       string
	Model        DeviceModel
	Firmware     string
	Capabilities Capabilities
}

// StreamingConfig is the acquisition configuration applied with
// ConfigureStream. EffectiveSampleRate reports the derived sample rate for
// the chosen decimation; it is computed by the driver, never set by callers.
type StreamingConfig struct {
	CenterFreqHz        float64
	BandwidthHz         float64
	SampleFormat        SampleFormat
	Decimation          int
	BufferCapacity      int
	TimeStampEnabled    bool
	EffectiveSampleRate float64
}

// IQBuffer holds one acquisition's worth of interleaved complex samples.
// It is mutable only by the streaming engine's producer; consumers receive
// a read-only reference valid only for the duration of the callback.
type IQBuffer struct {
	Format         SampleFormat
	Float32Samples []float32 // valid when Format == FormatF32C
	Int16Samples   []int16   // valid when Format == FormatI16C
	SampleCount    int
	TimestampNs    int64
	TriggerOffsets []int
	SampleLoss     bool
}

// StreamingMetrics reports cumulative, monotone counters plus values
// derived from them and a start instant. Callers must not assume it is
// updated faster than once per produced buffer.
type StreamingMetrics struct {
	SampleRateActual  float64
	ByteRate          float64
	DroppedBuffers    uint64
	CallbackCount     uint64
	AvgCallbackTimeUs float64
}

// DeviceParams is a marker interface implemented by driver-specific
// parameter bundles (e.g. receiver.BB60Params) so ApplyParams can be
// type-checked against the concrete device kind without an empty any.
// The marker method is exported because implementations live in driver
// packages outside devices.
type DeviceParams interface {
	DeviceParamsMarker()
}

// Callback is the streaming engine's consumer trait. OnIQ must not retain
// buf past the call; it must copy out anything it needs.
type Callback interface {
	OnIQ(buf *IQBuffer) error
}

// CallbackFunc adapts a plain function to Callback.
type CallbackFunc func(buf *IQBuffer) error

func (f CallbackFunc) OnIQ(buf *IQBuffer) error { return f(buf) }

// Device is the hardware-agnostic signal-source contract. Implementations
// must treat every method but Metrics/IsOpen as non-reentrant: a caller
// that invokes ApplyParams/ConfigureStream while a stream is running must
// see InvalidState rather than undefined behavior.
type Device interface {
	Enumerate(ctx context.Context) ([]DeviceInfo, error)
	Open(ctx context.Context, serial string) error
	Close() error
	IsOpen() bool
	Info() (DeviceInfo, error)
	ApplyParams(params DeviceParams) error
	ConfigureStream(cfg StreamingConfig) error
	StartStream(cb Callback) error
	StopStream() error
	Metrics() StreamingMetrics
	Reset() error
}
