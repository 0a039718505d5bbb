package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hrd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HRD_CONFIG", "")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, LogConfig{Level: "info", Encoding: "json"}, cfg.Log)
	assert.Equal(t, SweeperConfig{Enabled: true, Interval: time.Hour}, cfg.Sweeper)
}

func TestLoad_FileThenEnv(t *testing.T) {
	// GIVEN: A file setting a few keys
	path := writeFile(t, `
data_dir: /var/lib/hrd
http:
  port: 9000
  allowed_origins: ["https://hr.example.com"]
log:
  encoding: console
sweeper:
  interval: 10m
`)
	// AND: Environment overrides for some of them
	t.Setenv("HRD_HTTP_PORT", "9100")
	t.Setenv("HRD_LOG_LEVEL", "debug")

	// WHEN: Loading
	cfg, err := Load(path)

	// THEN: Env beats file, file beats defaults
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/hrd", cfg.DataDir)
	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://hr.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, LogConfig{Level: "debug", Encoding: "console"}, cfg.Log)
	assert.Equal(t, 10*time.Minute, cfg.Sweeper.Interval)
	assert.True(t, cfg.Sweeper.Enabled)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	t.Setenv("HRD_CONFIG", writeFile(t, "data_dir: /srv/records\n"))

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "/srv/records", cfg.DataDir)
}

func TestLoad_EnvOnly(t *testing.T) {
	// GIVEN: No file, every override set through the environment
	t.Setenv("HRD_CONFIG", "")
	t.Setenv("HRD_DATA_DIR", "/tmp/hrd")
	t.Setenv("HRD_HTTP_HOST", "127.0.0.1")
	t.Setenv("HRD_HTTP_PORT", "9200")
	t.Setenv("HRD_LOG_ENCODING", "console")
	t.Setenv("HRD_SWEEPER_INTERVAL", "90s")
	t.Setenv("HRD_SWEEPER_ENABLED", "false")
	t.Setenv("HRD_LOG_LEVEL", "")

	// WHEN: Loading
	cfg, err := Load("")

	// THEN: Mapped variables win, empty and unmapped ones are ignored
	require.NoError(t, err)
	assert.Equal(t, "/tmp/hrd", cfg.DataDir)
	assert.Equal(t, "127.0.0.1:9200", cfg.HTTP.Addr())
	assert.Equal(t, LogConfig{Level: "info", Encoding: "console"}, cfg.Log)
	assert.Equal(t, SweeperConfig{Enabled: true, Interval: 90 * time.Second}, cfg.Sweeper)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "port out of range", file: "http:\n  port: 70000\n"},
		{name: "non-numeric port env", env: map[string]string{"HRD_HTTP_PORT": "eighty"}},
		{name: "bad sweeper interval env", env: map[string]string{"HRD_SWEEPER_INTERVAL": "soon"}},
		{name: "zero sweeper interval", file: "sweeper:\n  interval: 0s\n"},
		{name: "malformed yaml", file: "http: [port\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HRD_CONFIG", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}

			_, err := Load(path)

			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}
