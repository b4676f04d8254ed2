/*
Package config provides centralized configuration management for the
direction-finding platform.

Configuration is layered with koanf: built-in defaults, then an optional
YAML config file, then environment variables, each layer overriding the
last. Call LoadWithKoanf to obtain a validated Config.

# Configuration Structure

  - DeviceConfig: signal-source driver selection and default acquisition profile
  - StreamingConfig: buffer pool sizing and producer loop tuning
  - DatabaseConfig: embedded DuckDB connection and maintenance settings
  - TileCacheConfig: on-disk tile cache layout and compression
  - TileServerConfig: HTTP tile server bind address and rate limits
  - DownloaderConfig: OSM tile fetch worker pool and pacing
  - ReportConfig: report template directory and scheduler cadence
  - EventBusConfig: NATS connection used for the config/node-monitor event surface
  - LoggingConfig: log level and output format

# Environment Variables

Environment variables take the highest precedence and use underscore-
separated, upper-cased dotted paths, e.g. DATABASE_PATH maps to
database.path, TILESERVER_PORT maps to tileserver.port.
*/
package config
