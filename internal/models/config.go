package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Upstream UpstreamConfig
	Refresh  RefreshConfig
	Render   RenderConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	ListenAddr      string
	ShutdownTimeout time.Duration
}

// UpstreamConfig holds the two upstream data source settings
type UpstreamConfig struct {
	CountriesUrl string
	RatesUrl     string
	Timeout      time.Duration
}

// RefreshConfig holds refresh pipeline settings
type RefreshConfig struct {
	// FullDatasetThreshold is the stored count at which the dataset is
	// considered complete and further fetches are skipped.
	FullDatasetThreshold int64
}

// RenderConfig holds summary image settings
type RenderConfig struct {
	ImagePath string
}
