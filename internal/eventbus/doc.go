// Package eventbus publishes platform events (configuration changes, node
// health metrics) onto NATS via Watermill. Build with -tags=nats to link
// the real NATS client; without the tag, Bus methods return an error so
// the rest of the platform can run without a broker in development.
package eventbus
