package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envNames = []string{
	"HTTP_ADDR", "REDIS_ADDR", "DB_URL", "SESSION_STORE", "SESSION_TTL",
	"SWEEP_SCHEDULE", "LOG_LEVEL", "LOG_FORMAT", "ROUTING_RULE",
}

// chdir moves into an empty directory with a clean environment so no stray
// .env file or variable is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	for _, name := range envNames {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "split.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9090"
session_ttl: 10m
log_level: debug
routing_rule: checksum
`), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "checksum", cfg.RoutingRule)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SESSION_TTL=45s\n"), 0o600))

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.SessionTTL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad ttl", env: map[string]string{"SESSION_TTL": "soon"}},
		{name: "negative ttl", env: map[string]string{"SESSION_TTL": "-1m"}},
		{name: "unknown store", env: map[string]string{"SESSION_STORE": "disk"}},
		{name: "redis without addr", env: map[string]string{"SESSION_STORE": "redis", "REDIS_ADDR": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")

			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t)

	_, err := Load("does-not-exist.yaml")

	assert.ErrorIs(t, err, os.ErrNotExist)
}
