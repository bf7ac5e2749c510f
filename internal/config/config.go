package config

import (
	"time"

	"github.com/ShreyaSuvarna1/Veerpath/internal/scraper"
)

type Config struct {
	Server  ServerConfig     `yaml:"server"`
	Refresh RefreshConfig    `yaml:"refresh"`
	Fetch   FetchConfig      `yaml:"fetch"`
	Storage StorageConfig    `yaml:"storage"`
	Logging LoggingConfig    `yaml:"logging"`
	Sources []scraper.Source `yaml:"sources"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type FetchConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
	AcceptLanguage string        `yaml:"accept_language"`
	RespectRobots  bool          `yaml:"respect_robots"`
	HostInterval   time.Duration `yaml:"host_interval"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // "file", "postgres", "sqlite"
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json", "text"
}
