// Package config loads the emulator daemon's configuration. Precedence is
// defaults, then an optional YAML file, then FRONT_* environment
// variables. The configuration is read once at startup.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lambdafront/lambdafront/internal/domain"
)

type Config struct {
	Server ServerConfig `koanf:"server"`

	// StripStage removes the leading stage segment from gateway paths
	// during canonicalization.
	StripStage bool `koanf:"strip_stage"`

	// Format selects the trigger payload shape the emulator synthesizes
	// from plain HTTP requests: one of the trigger tags alb, rest,
	// http-v1, http-v2.
	Format string `koanf:"format"`

	Invoker   InvokerConfig   `koanf:"invoker"`
	Recording RecordingConfig `koanf:"recording"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Telemetry TelemetryConfig `koanf:"telemetry"`

	LogLevel string `koanf:"log_level"`
}

type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type InvokerConfig struct {
	Mode      string `koanf:"mode"`     // local, remote
	Function  string `koanf:"function"` // remote function name or ARN
	Region    string `koanf:"region"`
	Qualifier string `koanf:"qualifier"`
}

type RecordingConfig struct {
	Enabled bool   `koanf:"enabled"`
	Driver  string `koanf:"driver"` // memory, sqlite
	Path    string `koanf:"path"`   // sqlite database file
	Limit   int    `koanf:"limit"`  // memory driver retention cap
}

type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
}

// synthFormats are the trigger shapes the emulator can synthesize from a
// plain HTTP request. WebSocket and Lattice events have no HTTP ingress
// to synthesize from.
var synthFormats = map[string]bool{
	string(domain.TriggerALB):    true,
	string(domain.TriggerRest):   true,
	string(domain.TriggerHTTPV1): true,
	string(domain.TriggerHTTPV2): true,
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads configuration from path, or from config.yaml when path is
// empty. A missing file is not an error; defaults and environment
// variables still apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = "config.yaml"
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Environment variables override file config.
	if err := k.Load(env.Provider("FRONT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "FRONT_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	// Default values
	if !k.Exists("server.addr") {
		k.Set("server.addr", ":8787")
	}
	if !k.Exists("server.read_timeout") {
		k.Set("server.read_timeout", "30s")
	}
	if !k.Exists("server.write_timeout") {
		k.Set("server.write_timeout", "30s")
	}
	if !k.Exists("format") {
		k.Set("format", string(domain.TriggerHTTPV2))
	}
	if !k.Exists("invoker.mode") {
		k.Set("invoker.mode", "local")
	}
	if !k.Exists("recording.driver") {
		k.Set("recording.driver", "memory")
	}
	if !k.Exists("recording.path") {
		k.Set("recording.path", "lambdafront.db")
	}
	if !k.Exists("recording.limit") {
		k.Set("recording.limit", 256)
	}
	if !k.Exists("rate_limit.rps") {
		k.Set("rate_limit.rps", 50.0)
	}
	if !k.Exists("rate_limit.burst") {
		k.Set("rate_limit.burst", 100)
	}
	if !k.Exists("log_level") {
		k.Set("log_level", "info")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Substitute ${VAR} references so function names and paths can come
	// from the environment without koanf keys for each.
	cfg.Invoker.Function = substituteEnvVars(cfg.Invoker.Function)
	cfg.Invoker.Region = substituteEnvVars(cfg.Invoker.Region)
	cfg.Recording.Path = substituteEnvVars(cfg.Recording.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown modes, formats, and drivers before anything is
// built from them.
func (c *Config) Validate() error {
	if !synthFormats[c.Format] {
		return fmt.Errorf("unknown payload format %q", c.Format)
	}

	switch c.Invoker.Mode {
	case "local":
	case "remote":
		if c.Invoker.Function == "" {
			return fmt.Errorf("remote invoker requires invoker.function")
		}
	default:
		return fmt.Errorf("unknown invoker mode %q", c.Invoker.Mode)
	}

	switch c.Recording.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown recording driver %q", c.Recording.Driver)
	}

	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit enabled with rps %v", c.RateLimit.RPS)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps the configured log level string onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
