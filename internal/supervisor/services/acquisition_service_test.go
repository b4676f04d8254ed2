package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thejerf/suture/v4"

	"github.com/tdoa-platform/core/internal/devices"
)

type fakeStreamingDevice struct {
	startErr    error
	stopErr     error
	startCount  atomic.Int32
	stopCount   atomic.Int32
}

func (f *fakeStreamingDevice) StartStream(cb devices.Callback) error {
	f.startCount.Add(1)
	return f.startErr
}

func (f *fakeStreamingDevice) StopStream() error {
	f.stopCount.Add(1)
	return f.stopErr
}

func TestAcquisitionService_ImplementsSutureService(t *testing.T) {
	var _ suture.Service = (*AcquisitionService)(nil)
}

func TestAcquisitionService_StartsAndStopsOnCancel(t *testing.T) {
	dev := &fakeStreamingDevice{}
	svc := NewAcquisitionService(dev, devices.CallbackFunc(func(*devices.IQBuffer) error { return nil }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), dev.startCount.Load())
	assert.Equal(t, int32(1), dev.stopCount.Load())
}

func TestAcquisitionService_ReturnsStartStreamError(t *testing.T) {
	dev := &fakeStreamingDevice{startErr: errors.New("device not open")}
	svc := NewAcquisitionService(dev, devices.CallbackFunc(func(*devices.IQBuffer) error { return nil }))

	err := svc.Serve(context.Background())
	assert.ErrorIs(t, err, dev.startErr)
	assert.Equal(t, int32(0), dev.stopCount.Load())
}

func TestAcquisitionService_String(t *testing.T) {
	svc := NewAcquisitionService(&fakeStreamingDevice{}, devices.CallbackFunc(func(*devices.IQBuffer) error { return nil }))
	assert.Equal(t, "device-acquisition", svc.String())
}
