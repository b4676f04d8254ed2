package config

import "fmt"

// Validate checks that required configuration is present and internally
// consistent, returning the first violation found.
func (c *Config) Validate() error {
	if err := c.validateDevice(); err != nil {
		return err
	}
	if err := c.validateStreaming(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateTileServer(); err != nil {
		return err
	}
	if err := c.validateDownloader(); err != nil {
		return err
	}
	return c.validateEventBus()
}

func (c *Config) validateDevice() error {
	if c.Device.DriverType == "" {
		return fmt.Errorf("device.driver_type must not be empty")
	}
	if c.Device.OpenTimeout <= 0 {
		return fmt.Errorf("device.open_timeout must be positive")
	}
	if c.Device.CenterFreqHz < 9.0e3 || c.Device.CenterFreqHz > 6.0e9 {
		return fmt.Errorf("device.center_freq_hz must be between 9kHz and 6GHz")
	}
	return nil
}

func (c *Config) validateStreaming() error {
	if c.Streaming.PoolSize < 2 {
		return fmt.Errorf("streaming.pool_size must be at least 2")
	}
	if c.Streaming.BufferCapacity <= 0 {
		return fmt.Errorf("streaming.buffer_capacity must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must not be negative")
	}
	return nil
}

func (c *Config) validateTileServer() error {
	if c.TileServer.Port <= 0 || c.TileServer.Port > 65535 {
		return fmt.Errorf("tileserver.port must be between 1 and 65535")
	}
	if c.TileServer.RateLimitPerMin <= 0 {
		return fmt.Errorf("tileserver.rate_limit_per_min must be positive")
	}
	return nil
}

func (c *Config) validateDownloader() error {
	if c.Downloader.Workers <= 0 {
		return fmt.Errorf("downloader.workers must be positive")
	}
	if c.Downloader.RequestsPerSec <= 0 {
		return fmt.Errorf("downloader.requests_per_sec must be positive")
	}
	if c.Downloader.OriginURL == "" {
		return fmt.Errorf("downloader.origin_url must not be empty")
	}
	return nil
}

func (c *Config) validateEventBus() error {
	if c.EventBus.Enabled && c.EventBus.URL == "" {
		return fmt.Errorf("eventbus.url must not be empty when eventbus.enabled is true")
	}
	return nil
}
