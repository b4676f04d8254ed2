package services

import (
	"context"
	"fmt"

	"github.com/tdoa-platform/core/internal/devices"
)

// StreamingDevice matches the subset of devices.Device needed to run an
// acquisition loop under supervision.
type StreamingDevice interface {
	StartStream(cb devices.Callback) error
	StopStream() error
}

// AcquisitionService runs a device's streaming producer for the lifetime
// of the supervisor context.
type AcquisitionService struct {
	device StreamingDevice
	cb     devices.Callback
}

// NewAcquisitionService builds an AcquisitionService over an already-open,
// already-configured device.
func NewAcquisitionService(device StreamingDevice, cb devices.Callback) *AcquisitionService {
	return &AcquisitionService{device: device, cb: cb}
}

// Serve implements suture.Service.
func (s *AcquisitionService) Serve(ctx context.Context) error {
	if err := s.device.StartStream(s.cb); err != nil {
		return fmt.Errorf("acquisition: start stream: %w", err)
	}

	<-ctx.Done()

	if err := s.device.StopStream(); err != nil {
		return fmt.Errorf("acquisition: stop stream: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *AcquisitionService) String() string { return "device-acquisition" }
