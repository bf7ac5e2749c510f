package config

import (
	"time"

	"github.com/ShreyaSuvarna1/Veerpath/internal/httpx"
	"github.com/ShreyaSuvarna1/Veerpath/internal/scraper"
	"github.com/ShreyaSuvarna1/Veerpath/internal/store"
)

const (
	DefaultAddr     = "0.0.0.0:5000"
	DefaultInterval = 30 * time.Minute
)

// Default returns the configuration used when no file is present.
func Default() (*Config, error) {
	sources, err := scraper.DefaultSources()
	if err != nil {
		return nil, err
	}
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: 10 * time.Second,
		},
		Refresh: RefreshConfig{Interval: DefaultInterval},
		Fetch: FetchConfig{
			Timeout:        httpx.DefaultTimeout,
			UserAgent:      httpx.DefaultUserAgent,
			AcceptLanguage: httpx.DefaultAcceptLanguage,
			HostInterval:   time.Second,
		},
		Storage: StorageConfig{
			Driver: store.DriverFile,
			Path:   store.DefaultFile,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Sources: sources,
	}, nil
}
