package receiver

import "github.com/tdoa-platform/core/internal/devices"

// maxSampleRateHz is the BB60's undecimated I/Q sample rate.
const maxSampleRateHz = 40.0e6

// UseCase names a reproducible (params, stream-config) preset.
type UseCase string

const (
	UseCaseSensitivity UseCase = "sensitivity"
	UseCaseSpeed       UseCase = "speed"
	UseCaseBalanced    UseCase = "balanced"
	UseCaseTDOA        UseCase = "tdoa"
)

// preset bundles the params/config pair a use case resolves to. centerFreq
// carries over from whatever is currently configured, matching the
// original device's behavior of leaving center frequency untouched.
type preset struct {
	params BB60Params
	config devices.StreamingConfig
}

// resolvePreset returns the exact (params, config) snapshot for a use case,
// with centerFreqHz inherited from the caller's current configuration.
func resolvePreset(useCase UseCase, centerFreqHz float64) (preset, bool) {
	switch useCase {
	case UseCaseSensitivity:
		p := BB60Params{
			GainMode:        GainAuto,
			AttenuationMode: AttenuationLow,
			ReferenceLevel:  -50.0,
			Decimation:      16,
		}
		return preset{
			params: p,
			config: devices.StreamingConfig{
				CenterFreqHz:   centerFreqHz,
				BandwidthHz:    1.0e6,
				SampleFormat:   devices.FormatF32C,
				Decimation:     p.Decimation,
				BufferCapacity: 32768,
			},
		}, true

	case UseCaseSpeed:
		p := BB60Params{
			GainMode:        GainFastAttack,
			AttenuationMode: AttenuationAuto,
			ReferenceLevel:  -20.0,
			Decimation:      1,
		}
		return preset{
			params: p,
			config: devices.StreamingConfig{
				CenterFreqHz:   centerFreqHz,
				BandwidthHz:    27.0e6,
				SampleFormat:   devices.FormatF32C,
				Decimation:     p.Decimation,
				BufferCapacity: 65536,
			},
		}, true

	case UseCaseBalanced:
		p := BB60Params{
			GainMode:        GainAuto,
			AttenuationMode: AttenuationAuto,
			ReferenceLevel:  -30.0,
			Decimation:      4,
		}
		return preset{
			params: p,
			config: devices.StreamingConfig{
				CenterFreqHz:   centerFreqHz,
				BandwidthHz:    5.0e6,
				SampleFormat:   devices.FormatF32C,
				Decimation:     p.Decimation,
				BufferCapacity: 32768,
			},
		}, true

	case UseCaseTDOA:
		p := BB60Params{
			GainMode:        GainFastAttack,
			AttenuationMode: AttenuationAuto,
			ReferenceLevel:  -30.0,
			Decimation:      8,
		}
		return preset{
			params: p,
			config: devices.StreamingConfig{
				CenterFreqHz:     centerFreqHz,
				BandwidthHz:      2.5e6,
				SampleFormat:     devices.FormatF32C,
				Decimation:       p.Decimation,
				TimeStampEnabled: true,
				BufferCapacity:   32768,
			},
		}, true

	default:
		return preset{}, false
	}
}
