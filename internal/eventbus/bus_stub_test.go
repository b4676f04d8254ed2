//go:build !nats

package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_WithoutNATSTagReturnsError(t *testing.T) {
	_, err := New(DefaultConfig("nats://localhost:4222"))
	assert.Error(t, err)
}

func TestBus_StubMethodsReturnError(t *testing.T) {
	b := &Bus{}
	assert.Error(t, b.PublishConfigChanged(context.Background(), ConfigChangedEvent{}))
	assert.Error(t, b.PublishNodeMetrics(context.Background(), NodeMetricsEvent{}))
	assert.NoError(t, b.Close())
}
