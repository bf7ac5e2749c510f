package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "jobs.json", cfg.Storage.Path)
	require.Len(t, cfg.Sources, 4)
	assert.Equal(t, jobs.SourceDGR, cfg.Sources[0].ID)
}

func TestLoadOverlaysFileAndExpandsEnv(t *testing.T) {
	t.Setenv("VEERPATH_DATA", "/var/lib/veerpath/jobs.json")
	path := writeFile(t, `
refresh:
  interval: 5m
fetch:
  timeout: 8s
  respect_robots: true
storage:
  path: $(VEERPATH_DATA)
logging:
  format: text
sources:
  - id: DGR
    base_url: https://dgrindia.gov.in
    path: /latest-jobs
    container: .notice-list a
    limit: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, 8*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Fetch.RespectRobots)
	assert.Equal(t, "/var/lib/veerpath/jobs.json", cfg.Storage.Path)
	assert.Equal(t, "text", cfg.Logging.Format)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, 3, cfg.Sources[0].Limit)
	// untouched sections keep defaults
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/veerpath?sslmode=disable")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "postgres://u:p@localhost/veerpath?sslmode=disable", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeFile(t, "refresh: [unclosed"))
	assert.ErrorContains(t, err, "unmarshalling yaml")
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Server.Addr = "nonsense"
	cfg.Refresh.Interval = 0
	cfg.Fetch.Timeout = 2 * time.Minute
	cfg.Storage.Driver = "postgres"
	cfg.Sources = append(cfg.Sources, cfg.Sources[0])

	err = Validate(*cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "server.addr")
	assert.Contains(t, msg, "refresh.interval")
	assert.Contains(t, msg, "fetch.timeout")
	assert.Contains(t, msg, "storage.dsn")
	assert.Contains(t, msg, `duplicate id "DGR"`)
}

func TestValidateRequiresSources(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Sources = nil
	assert.ErrorContains(t, Validate(*cfg), "at least one source")
}
