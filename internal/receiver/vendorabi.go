package receiver

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// vendorOpenLatency approximates the real BB60 USB enumeration handshake;
// open() blocks for roughly this long and is cancellable only via ctx.
const vendorOpenLatency = 3 * time.Second

// errVendorClosed is returned by fetch calls once close() has run;
// Receiver.Fetch translates it to streaming.ErrDeviceClosed.
var errVendorClosed = errors.New("receiver: vendor device closed")

// knownSerials simulates the fixed inventory of attached BB60 units; a real
// vendor ABI would query USB enumeration instead.
var knownSerials = []struct {
	serial   string
	model    DeviceModelName
	firmware string
}{
	{serial: "BB60C-SIM-0001", model: ModelBB60C, firmware: "4.1.2"},
}

// DeviceModelName mirrors devices.DeviceModel without importing it, so the
// vendor layer stays decoupled from the abstraction it backs.
type DeviceModelName int

const (
	ModelNone DeviceModelName = iota
	ModelBB60A
	ModelBB60C
	ModelBB60D
)

// vendorABI simulates the vendor C library surface: open/close, IQ
// configuration, and raw sample fetch for float32 or int16 formats. Every
// call is synchronous, matching the real library's blocking ABI.
type vendorABI struct {
	serial   string
	model    DeviceModelName
	firmware string
	open     bool
	closed   bool

	centerFreqHz float64
	decimation   int
	phase        float64
	rng          *rand.Rand
}

func newVendorABI() *vendorABI {
	return &vendorABI{rng: rand.New(rand.NewSource(1))}
}

// open blocks for vendorOpenLatency or until ctx is canceled. An empty
// serial opens the first enumerated device, matching the original ABI's
// "any serial" convention.
func (v *vendorABI) open(ctx context.Context, serial string) error {
	match := knownSerials[0]
	if serial != "" {
		found := false
		for _, k := range knownSerials {
			if k.serial == serial {
				match = k
				found = true
				break
			}
		}
		if !found {
			return errors.New("receiver: no matching serial")
		}
	}

	select {
	case <-time.After(vendorOpenLatency):
	case <-ctx.Done():
		return ctx.Err()
	}

	v.serial = match.serial
	v.model = match.model
	v.firmware = match.firmware
	v.open = true
	v.closed = false
	return nil
}

func (v *vendorABI) close() error {
	v.open = false
	v.closed = true
	return nil
}

func (v *vendorABI) isOpen() bool { return v.open }

func (v *vendorABI) configureIQ(centerFreqHz float64, decimation int) {
	v.centerFreqHz = centerFreqHz
	v.decimation = decimation
}

func (v *vendorABI) reset() {
	v.centerFreqHz = 0
	v.decimation = 4
	v.phase = 0
}

// fetchFloat32 fills dst with synthetic interleaved I/Q: a weak tone plus
// white noise, standing in for the real device's DMA transfer.
func (v *vendorABI) fetchFloat32(dst []float32) (int, error) {
	if v.closed {
		return 0, errVendorClosed
	}
	if !v.open {
		return 0, errors.New("receiver: device not open")
	}

	pairs := len(dst) / 2
	const toneFreqFraction = 0.01 // cycles per sample, arbitrary but fixed
	for i := 0; i < pairs; i++ {
		v.phase += 2 * math.Pi * toneFreqFraction
		i32 := float32(0.05*math.Cos(v.phase)) + noiseSample(v.rng)
		q32 := float32(0.05*math.Sin(v.phase)) + noiseSample(v.rng)
		dst[2*i] = i32
		dst[2*i+1] = q32
	}
	return pairs, nil
}

func (v *vendorABI) fetchInt16(dst []int16) (int, error) {
	if v.closed {
		return 0, errVendorClosed
	}
	if !v.open {
		return 0, errors.New("receiver: device not open")
	}

	pairs := len(dst) / 2
	const toneFreqFraction = 0.01
	for i := 0; i < pairs; i++ {
		v.phase += 2 * math.Pi * toneFreqFraction
		dst[2*i] = int16(2000 * math.Cos(v.phase))
		dst[2*i+1] = int16(2000 * math.Sin(v.phase))
	}
	return pairs, nil
}

func noiseSample(rng *rand.Rand) float32 {
	return float32(rng.NormFloat64() * 0.01)
}
