// Package config resolves pcpulse settings from defaults, a .env file, an
// optional YAML file and PCPULSE_* environment variables, in that order of
// increasing precedence. Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInterval    = time.Second
	DefaultToolTimeout = 2 * time.Second
	DefaultSensorURL   = "http://localhost:8085/data.json"

	envPrefix = "PCPULSE_"
)

// Config holds all runtime settings.
type Config struct {
	// Interval is the pause between the end of one sample and the next.
	Interval time.Duration `yaml:"interval"`
	// ToolTimeout bounds every external tool or service call. Values
	// above DefaultToolTimeout are clamped.
	ToolTimeout time.Duration `yaml:"tool_timeout"`
	// SensorURL is the data.json endpoint of the hardware sensor service.
	SensorURL string `yaml:"sensor_url"`
	// LogFile receives structured logs. Empty disables logging.
	LogFile   string `yaml:"log_file"`
	Verbosity int    `yaml:"verbosity"`
	// ModelNames maps hardware model identifiers to display names.
	ModelNames map[string]string `yaml:"model_names"`
	// Platform overrides the detected operating system.
	Platform string `yaml:"platform"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Interval:    DefaultInterval,
		ToolTimeout: DefaultToolTimeout,
		SensorURL:   DefaultSensorURL,
		LogFile:     filepath.Join(os.TempDir(), "pcpulse.log"),
		Platform:    runtime.GOOS,
	}
}

// Load builds a Config. envFile names a dotenv file; a missing ".env" is
// ignored but any other missing file is an error. configPath names an
// optional YAML file.
func Load(configPath, envFile string) (*Config, error) {
	cfg := Default()

	dotenv, err := readDotenv(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(func(key string) (string, bool) {
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", envFile, err)
	}

	if configPath != "" {
		if err := cfg.loadFile(configPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	cfg.Normalize()
	return cfg, nil
}

func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && filepath.Base(path) == ".env" {
			return nil, nil
		}
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	return values, nil
}

// loadFile merges a YAML file into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from PCPULSE_* variables found by lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		return strings.TrimSpace(v), ok
	}

	if v, ok := get("INTERVAL"); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%sINTERVAL: %w", envPrefix, err)
		}
		c.Interval = d
	}
	if v, ok := get("TOOL_TIMEOUT"); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTOOL_TIMEOUT: %w", envPrefix, err)
		}
		c.ToolTimeout = d
	}
	if v, ok := get("SENSOR_URL"); ok && v != "" {
		c.SensorURL = v
	}
	if v, ok := get("LOG_FILE"); ok {
		c.LogFile = v
	}
	if v, ok := get("VERBOSITY"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sVERBOSITY: %w", envPrefix, err)
		}
		c.Verbosity = n
	}
	if v, ok := get("PLATFORM"); ok && v != "" {
		c.Platform = v
	}
	return nil
}

// parseDuration accepts Go durations ("500ms") or plain seconds ("2").
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

// Normalize clamps ToolTimeout into (0, DefaultToolTimeout].
func (c *Config) Normalize() {
	if c.ToolTimeout <= 0 || c.ToolTimeout > DefaultToolTimeout {
		c.ToolTimeout = DefaultToolTimeout
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must not be negative, got %d", c.Verbosity)
	}
	if c.Platform == "" {
		return errors.New("platform must not be empty")
	}

	u, err := url.Parse(c.SensorURL)
	if err != nil {
		return fmt.Errorf("invalid sensor URL %q: %w", c.SensorURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported sensor URL scheme %q (must be http or https)", u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("invalid sensor URL %q: host is required", c.SensorURL)
	}
	return nil
}
