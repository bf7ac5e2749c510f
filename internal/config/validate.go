package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
)

func Validate(cfg Config) error {
	var errs []string

	if _, _, err := net.SplitHostPort(cfg.Server.Addr); err != nil {
		errs = append(errs, fmt.Sprintf("server.addr %q must be host:port", cfg.Server.Addr))
	}
	if cfg.Refresh.Interval <= 0 {
		errs = append(errs, "refresh.interval must be > 0")
	}
	if cfg.Fetch.Timeout <= 0 || cfg.Fetch.Timeout > time.Minute {
		errs = append(errs, "fetch.timeout must be in (0, 1m]")
	}
	if cfg.Fetch.HostInterval < 0 {
		errs = append(errs, "fetch.host_interval must be >= 0")
	}

	switch strings.ToLower(cfg.Storage.Driver) {
	case "", "file", "sqlite":
	case "postgres":
		if cfg.Storage.DSN == "" {
			errs = append(errs, "storage.dsn is required for postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.driver %q must be file, postgres or sqlite", cfg.Storage.Driver))
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q must be json or text", cfg.Logging.Format))
	}

	if len(cfg.Sources) == 0 {
		errs = append(errs, "at least one source is required")
	}
	seen := map[jobs.Source]bool{}
	for i, s := range cfg.Sources {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("sources[%d]: %v", i, err))
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("sources[%d]: duplicate id %q", i, s.ID))
		}
		seen[s.ID] = true
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
