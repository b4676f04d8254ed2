//go:build !nats

package eventbus

import (
	"context"
	"fmt"
)

// Bus is a stub when NATS dependencies are not linked in. Build with
// -tags=nats to enable the real Watermill/NATS bus.
type Bus struct{}

// New returns an error when NATS dependencies are not available.
func New(cfg Config) (*Bus, error) {
	return nil, fmt.Errorf("eventbus: NATS support not available: build with -tags=nats")
}

// PublishConfigChanged is a stub that returns an error.
func (b *Bus) PublishConfigChanged(ctx context.Context, evt ConfigChangedEvent) error {
	return fmt.Errorf("eventbus: NATS support not available: build with -tags=nats")
}

// PublishNodeMetrics is a stub that returns an error.
func (b *Bus) PublishNodeMetrics(ctx context.Context, evt NodeMetricsEvent) error {
	return fmt.Errorf("eventbus: NATS support not available: build with -tags=nats")
}

// Close is a no-op stub.
func (b *Bus) Close() error {
	return nil
}
