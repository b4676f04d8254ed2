package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tdoa-platform/core/internal/config"
	"github.com/tdoa-platform/core/internal/devices"
	// Imported for its UseCase type and init()-time "bb60c" driver registration.
	"github.com/tdoa-platform/core/internal/receiver"
)

// useCasePresetApplier is implemented by drivers that support named
// acquisition presets (currently only *receiver.Receiver). Drivers that
// don't implement it are configured with ConfigureStream alone.
type useCasePresetApplier interface {
	OptimizeFor(useCase receiver.UseCase) error
}

// openDevice constructs, opens and configures the device named by
// cfg.Device.DriverType. If SerialNumber is empty, the first enumerated
// device is used. A non-zero center frequency is applied first so that
// drivers exposing OptimizeFor have something to inherit into their
// use-case preset.
func openDevice(ctx context.Context, cfg config.DeviceConfig, streamingCfg config.StreamingConfig) (devices.Device, error) {
	dev, ok := devices.New(cfg.DriverType)
	if !ok {
		return nil, fmt.Errorf("device: no driver registered for %q (known: %v)", cfg.DriverType, devices.RegisteredNames())
	}

	serial := cfg.SerialNumber
	if serial == "" {
		infos, err := dev.Enumerate(ctx)
		if err != nil {
			return nil, fmt.Errorf("device: enumerate: %w", err)
		}
		if len(infos) == 0 {
			return nil, fmt.Errorf("device: no devices enumerated for driver %q", cfg.DriverType)
		}
		serial = infos[0].Serial
	}

	if err := dev.Open(ctx, serial); err != nil {
		return nil, fmt.Errorf("device: open %q: %w", serial, err)
	}

	seed := devices.StreamingConfig{
		CenterFreqHz:   cfg.CenterFreqHz,
		BandwidthHz:    1.0e6,
		SampleFormat:   devices.FormatF32C,
		BufferCapacity: streamingCfg.BufferCapacity,
	}
	if err := dev.ConfigureStream(seed); err != nil {
		dev.Close()
		return nil, fmt.Errorf("device: seed stream config: %w", err)
	}

	if applier, ok := dev.(useCasePresetApplier); ok {
		useCase := receiver.UseCase(cfg.DefaultUseCase)
		if err := applier.OptimizeFor(useCase); err != nil {
			dev.Close()
			return nil, fmt.Errorf("device: optimize for %q: %w", useCase, err)
		}
		log.Info().Str("use_case", string(useCase)).Msg("device: applied use-case preset")
	} else {
		log.Warn().Str("driver", cfg.DriverType).Msg("device: driver does not support use-case presets, using seed stream config")
	}

	return dev, nil
}
