package config

import "time"

// Config is the root configuration tree for the platform. Every field is
// assembled by LoadWithKoanf from defaults, an optional YAML file, and
// environment variables, in that order of precedence.
type Config struct {
	Device      DeviceConfig      `koanf:"device"`
	Streaming   StreamingConfig   `koanf:"streaming"`
	Database    DatabaseConfig    `koanf:"database"`
	TileCache   TileCacheConfig   `koanf:"tilecache"`
	TileServer  TileServerConfig  `koanf:"tileserver"`
	Downloader  DownloaderConfig  `koanf:"downloader"`
	Report      ReportConfig      `koanf:"report"`
	EventBus    EventBusConfig    `koanf:"eventbus"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// DeviceConfig selects the signal-source driver and its startup profile.
type DeviceConfig struct {
	// DriverType names the driver registered with devices.Register to use, e.g. "bb60c".
	DriverType   string        `koanf:"driver_type"`
	SerialNumber string        `koanf:"serial_number"`
	ProfileDir   string        `koanf:"profile_dir"`
	DefaultUseCase string      `koanf:"default_use_case"`
	CenterFreqHz float64       `koanf:"center_freq_hz"`
	OpenTimeout  time.Duration `koanf:"open_timeout"`
}

// StreamingConfig holds streaming-engine settings. They are validated on
// load but nothing else reads them: the engine's arena is fixed at
// streaming.MaxBufferCount buffers, and each buffer's capacity comes from
// the device's devices.StreamingConfig.
type StreamingConfig struct {
	PoolSize       int           `koanf:"pool_size"`
	BufferCapacity int           `koanf:"buffer_capacity"`
	DrainTimeout   time.Duration `koanf:"drain_timeout"`
}

// DatabaseConfig configures the embedded DuckDB-backed signal store.
type DatabaseConfig struct {
	Path              string        `koanf:"path"`
	Threads           int           `koanf:"threads"`
	MemoryLimit       string        `koanf:"memory_limit"`
	CheckpointOnClose bool          `koanf:"checkpoint_on_close"`
	MaintenanceWindow time.Duration `koanf:"maintenance_window"`
}

// TileCacheConfig configures the on-disk map tile cache.
type TileCacheConfig struct {
	RootDir       string        `koanf:"root_dir"`
	CompressTiles bool          `koanf:"compress_tiles"`
	MaxAge        time.Duration `koanf:"max_age"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	IndexPath     string        `koanf:"index_path"`
}

// TileServerConfig configures the HTTP tile server.
type TileServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	RateLimitPerMin   int           `koanf:"rate_limit_per_min"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	CORSAllowedOrigins []string     `koanf:"cors_allowed_origins"`
}

// DownloaderConfig configures the bounded worker pool that fetches tiles
// from the upstream OSM-compatible tile origin.
type DownloaderConfig struct {
	OriginURL       string        `koanf:"origin_url"`
	Workers         int           `koanf:"workers"`
	RequestsPerSec  float64       `koanf:"requests_per_sec"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	QueueDepth      int           `koanf:"queue_depth"`
}

// ReportConfig configures templated report generation and scheduling.
type ReportConfig struct {
	TemplateDir   string        `koanf:"template_dir"`
	OutputDir     string        `koanf:"output_dir"`
	ScheduleTick  time.Duration `koanf:"schedule_tick"`
}

// EventBusConfig configures the NATS connection used for the external
// config-manager and node-monitor event contracts.
type EventBusConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
