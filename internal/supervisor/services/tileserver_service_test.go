package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thejerf/suture/v4"
)

type fakeTileServer struct {
	startErr     error
	startBlock   bool
	shutdownErr  error
	startCount   atomic.Int32
	shutdownCt   atomic.Int32
	stopCh       chan struct{}
	startCalled  chan struct{}
}

func newFakeTileServer() *fakeTileServer {
	return &fakeTileServer{stopCh: make(chan struct{}), startCalled: make(chan struct{}, 1)}
}

func (f *fakeTileServer) Start() error {
	f.startCount.Add(1)
	select {
	case f.startCalled <- struct{}{}:
	default:
	}
	if f.startErr != nil {
		return f.startErr
	}
	if f.startBlock {
		<-f.stopCh
		return http.ErrServerClosed
	}
	return nil
}

func (f *fakeTileServer) Shutdown(ctx context.Context) error {
	f.shutdownCt.Add(1)
	close(f.stopCh)
	return f.shutdownErr
}

func TestTileServerService_ImplementsSutureService(t *testing.T) {
	var _ suture.Service = (*TileServerService)(nil)
}

func TestTileServerService_ShutsDownOnCancel(t *testing.T) {
	srv := newFakeTileServer()
	srv.startBlock = true
	svc := NewTileServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	<-srv.startCalled
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return")
	}
	assert.Equal(t, int32(1), srv.shutdownCt.Load())
}

func TestTileServerService_ReturnsStartError(t *testing.T) {
	srv := newFakeTileServer()
	srv.startErr = errors.New("bind failed")
	svc := NewTileServerService(srv, time.Second)

	err := svc.Serve(context.Background())
	assert.ErrorIs(t, err, srv.startErr)
}

func TestTileServerService_String(t *testing.T) {
	svc := NewTileServerService(newFakeTileServer(), time.Second)
	assert.Equal(t, "tile-server", svc.String())
}
