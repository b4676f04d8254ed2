package receiver

import (
	"github.com/tdoa-platform/core/internal/devices"
)

// Port1Mode selects the function of digital I/O port 1.
type Port1Mode int

const (
	Port1PulseTrigger Port1Mode = iota // generate pulse on trigger (default)
	Port1FrameSync                     // generate pulse on frame sync
	Port1DeviceIO                      // direct device I/O control
)

// Port2Mode selects the function of digital I/O port 2.
type Port2Mode int

const (
	Port2TriggerInput    Port2Mode = 0 // external trigger input (default)
	Port2DeviceIO        Port2Mode = 4 // direct device I/O control
	Port2OutputReference Port2Mode = 6 // 10 MHz output reference
)

// GainMode selects the receiver's gain control strategy.
type GainMode int

const (
	GainAuto GainMode = iota // automatic gain control (default)
	GainManual
	GainFastAttack // fast-attack AGC
)

// Attenuation selects the RF front-end attenuator setting.
type Attenuation int

const (
	AttenuationAuto Attenuation = iota // default
	AttenuationLow
	AttenuationMedium
	AttenuationHigh
)

// RFFilterMode selects the RF input filter.
type RFFilterMode int

const (
	RFFilterAuto RFFilterMode = iota // default
	RFFilterLowFreq
	RFFilterHighFreq
)

// validDecimationValues enumerates 2^k for 0 <= k <= 13, the only
// decimation factors the hardware accepts.
var validDecimationValues = []int{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096, 8192}

// BB60Params is the BB60-family parameter bundle applied with
// devices.Device.ApplyParams.
type BB60Params struct {
	Decimation      int
	Port1Mode       Port1Mode
	Port2Mode       Port2Mode
	GainMode        GainMode
	RFGain          int
	AttenuationMode Attenuation
	RFFilterMode    RFFilterMode
	ReferenceLevel  float64
}

func (BB60Params) DeviceParamsMarker() {}

// defaultParams mirrors the hardware's power-on defaults.
func defaultParams() BB60Params {
	return BB60Params{
		Decimation:      4,
		Port1Mode:       Port1PulseTrigger,
		Port2Mode:       Port2TriggerInput,
		GainMode:        GainAuto,
		RFGain:          0,
		AttenuationMode: AttenuationAuto,
		RFFilterMode:    RFFilterAuto,
		ReferenceLevel:  -20.0,
	}
}

func validateDecimation(d int) bool {
	for _, v := range validDecimationValues {
		if d == v {
			return true
		}
	}
	return false
}

// validateParams checks BB60Params against the hardware's accepted ranges.
// It never touches the device; callers must reject before applying.
func validateParams(p BB60Params) error {
	if !validateDecimation(p.Decimation) {
		return opErr("ApplyParams", devices.InvalidParameter, nil)
	}
	if p.ReferenceLevel < -130.0 || p.ReferenceLevel > 20.0 {
		return opErr("ApplyParams", devices.InvalidParameter, nil)
	}
	if p.GainMode == GainManual && (p.RFGain < -30 || p.RFGain > 30) {
		return opErr("ApplyParams", devices.InvalidParameter, nil)
	}
	return nil
}

// validateStreamingConfig checks StreamingConfig against the hardware's
// accepted ranges and cross-checks bandwidth/decimation against the
// effective sample rate it implies.
func validateStreamingConfig(cfg devices.StreamingConfig, decimation int) error {
	if cfg.CenterFreqHz < 9.0e3 || cfg.CenterFreqHz > 6.0e9 {
		return opErr("ConfigureStream", devices.InvalidParameter, nil)
	}
	if cfg.BandwidthHz <= 0 || cfg.BandwidthHz > 27.0e6 {
		return opErr("ConfigureStream", devices.InvalidParameter, nil)
	}
	if cfg.BufferCapacity < 1024 || cfg.BufferCapacity > 1<<20 {
		return opErr("ConfigureStream", devices.InvalidParameter, nil)
	}
	if cfg.SampleFormat != devices.FormatF32C && cfg.SampleFormat != devices.FormatI16C {
		return opErr("ConfigureStream", devices.InvalidParameter, nil)
	}
	effectiveRate := maxSampleRateHz / float64(decimation)
	if cfg.BandwidthHz > effectiveRate {
		return opErr("ConfigureStream", devices.InvalidParameter, nil)
	}
	return nil
}

func opErr(op string, code devices.ResultCode, err error) error {
	return &devices.OperationError{Op: op, Code: code, Err: err}
}
