package eventbus

import "time"

// Config configures the NATS connection backing a Bus.
type Config struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool
}

// DefaultConfig returns production defaults for a Bus connecting to url.
func DefaultConfig(url string) Config {
	return Config{
		URL:              url,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024,
		EnableTrackMsgID: true,
	}
}
