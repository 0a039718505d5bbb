/*
Package config loads runtime settings for the hrd binary.

SOURCES (later wins):
  1. Built-in defaults
  2. YAML file (--config, HRD_CONFIG, or ./hrd.yaml when present)
  3. Environment: HRD_DATA_DIR, HRD_HTTP_PORT, HRD_LOG_LEVEL, ... (see EnvKeys)
  4. Command-line flags (applied by cmd/hrd)

EXAMPLE FILE:
  data_dir: ./data
  http:
    port: 8080
    allowed_origins: ["http://localhost:5173"]
  log:
    level: debug
    encoding: console
  sweeper:
    interval: 10m
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HRD_"

// EnvKeys maps each accepted environment variable, without EnvPrefix, to its
// config key. Other HRD_ variables (HRD_CONFIG among them) are ignored.
var EnvKeys = map[string]string{
	"DATA_DIR":         "data_dir",
	"HTTP_HOST":        "http.host",
	"HTTP_PORT":        "http.port",
	"LOG_LEVEL":        "log.level",
	"LOG_ENCODING":     "log.encoding",
	"SWEEPER_INTERVAL": "sweeper.interval",
}

// DefaultFiles are probed in order when no path is given.
var DefaultFiles = []string{"./hrd.yaml", "./hrd.yml"}

type Config struct {
	DataDir string        `koanf:"data_dir"`
	HTTP    HTTPConfig    `koanf:"http"`
	Log     LogConfig     `koanf:"log"`
	Sweeper SweeperConfig `koanf:"sweeper"`
}

type HTTPConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr is the listen address.
func (h HTTPConfig) Addr() string { return fmt.Sprintf("%s:%d", h.Host, h.Port) }

type LogConfig struct {
	Level    string `koanf:"level"`    // debug, info, warn, error
	Encoding string `koanf:"encoding"` // json or console
}

type SweeperConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// Load reads path (or the first DefaultFiles entry that exists), then
// environment overrides, then fills the remaining keys with defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path == "" {
		path = firstExisting(DefaultFiles)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	applyDefaults(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("config: data_dir must not be empty")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: http.port %d out of range", c.HTTP.Port)
	}
	if c.Sweeper.Enabled && c.Sweeper.Interval <= 0 {
		return fmt.Errorf("config: sweeper.interval must be positive, got %s", c.Sweeper.Interval)
	}
	return nil
}

func applyDefaults(k *koanf.Koanf) {
	setDefault(k, "data_dir", "./data")

	setDefault(k, "http.host", "")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	setDefault(k, "http.read_timeout", 15*time.Second)
	setDefault(k, "http.write_timeout", 15*time.Second)
	setDefault(k, "http.shutdown_timeout", 30*time.Second)

	setDefault(k, "log.level", "info")
	setDefault(k, "log.encoding", "json")

	setDefault(k, "sweeper.enabled", true)
	setDefault(k, "sweeper.interval", time.Hour)
}

// envKey maps HRD_HTTP_PORT to http.port. Unknown or empty variables map
// to "" and are skipped.
func envKey(name, value string) (string, any) {
	key, ok := EnvKeys[strings.TrimPrefix(name, EnvPrefix)]
	if !ok || value == "" {
		return "", nil
	}
	return key, value
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		} else if !errors.Is(err, fs.ErrNotExist) {
			return p // let Load surface the permission error
		}
	}
	return ""
}
