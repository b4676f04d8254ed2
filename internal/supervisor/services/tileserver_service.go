package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// TileHTTPServer matches tileserver.Server's lifecycle methods.
type TileHTTPServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// TileServerService wraps the tile HTTP server as a supervised service.
type TileServerService struct {
	server          TileHTTPServer
	shutdownTimeout time.Duration
}

// NewTileServerService builds a TileServerService. shutdownTimeout defaults
// to 10 seconds when zero.
func NewTileServerService(server TileHTTPServer, shutdownTimeout time.Duration) *TileServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &TileServerService{server: server, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (s *TileServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("tile server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("tile server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer.
func (s *TileServerService) String() string { return "tile-server" }
