//go:build nats

package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Bus is a Watermill-backed publisher/subscriber over NATS JetStream.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	mu         sync.RWMutex
	closed     bool
}

// New connects a Bus using cfg. The logger adapts zerolog's global
// logger into Watermill's LoggerAdapter interface.
func New(cfg Config) (*Bus, error) {
	logger := watermill.NewStdLogger(false, false)

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("eventbus: NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("eventbus: NATS reconnected")
		}),
	}

	pubConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:   false,
			TrackMsgId: cfg.EnableTrackMsgID,
		},
	}
	pub, err := wmNats.NewPublisher(pubConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("eventbus: create publisher: %w", err)
	}

	subConfig := wmNats.SubscriberConfig{
		URL:              cfg.URL,
		SubscribersCount: 1,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
		},
	}
	sub, err := wmNats.NewSubscriber(subConfig, logger)
	if err != nil {
		pub.Close()
		return nil, fmt.Errorf("eventbus: create subscriber: %w", err)
	}

	return &Bus{publisher: pub, subscriber: sub}, nil
}

func (b *Bus) publish(subject string, payload []byte) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("eventbus: bus is closed")
	}
	b.mu.RUnlock()

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.publisher.Publish(subject, msg)
}

// PublishConfigChanged publishes a ConfigChangedEvent.
func (b *Bus) PublishConfigChanged(ctx context.Context, evt ConfigChangedEvent) error {
	data, err := marshalEvent(evt)
	if err != nil {
		return err
	}
	return b.publish(SubjectConfigChanged, data)
}

// PublishNodeMetrics publishes a NodeMetricsEvent.
func (b *Bus) PublishNodeMetrics(ctx context.Context, evt NodeMetricsEvent) error {
	data, err := marshalEvent(evt)
	if err != nil {
		return err
	}
	return b.publish(SubjectNodeMetrics, data)
}

// Subscribe returns a channel of raw messages for subject.
func (b *Bus) Subscribe(ctx context.Context, subject string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, subject)
}

// Close shuts down both the publisher and subscriber.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("eventbus: close publisher: %w", err)
	}
	return b.subscriber.Close()
}
