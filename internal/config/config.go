// Package config loads the turtle runtime configuration from YAML or JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turtle/internal/logging"
	"github.com/aretw0/turtle/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file read when no path is given.
const DefaultPath = "turtle.yaml"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the runtime configuration shared by the CLI commands.
type Config struct {
	FPS           int           `yaml:"fps" json:"fps"`
	InboxCapacity int           `yaml:"inbox_capacity" json:"inbox_capacity"`
	LogLevel      string        `yaml:"log_level" json:"log_level"`
	LogFormat     string        `yaml:"log_format" json:"log_format"`
	Canvas        CanvasConfig  `yaml:"canvas" json:"canvas"`
	HTTP          HTTPConfig    `yaml:"http" json:"http"`
	Metrics       MetricsConfig `yaml:"metrics" json:"metrics"`
	Redis         RedisConfig   `yaml:"redis" json:"redis"`
	MCP           MCPConfig     `yaml:"mcp" json:"mcp"`
}

// CanvasConfig sizes the raster surface.
type CanvasConfig struct {
	Width      int    `yaml:"width" json:"width"`
	Height     int    `yaml:"height" json:"height"`
	Background string `yaml:"background" json:"background"`
}

// HTTPConfig configures the REST server.
type HTTPConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// MetricsConfig toggles the Prometheus collectors.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// RedisConfig configures the Redis command source.
type RedisConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Addr      string `yaml:"addr" json:"addr"`
	Prefix    string `yaml:"prefix" json:"prefix"`
	Exclusive bool   `yaml:"exclusive" json:"exclusive"`
}

// MCPConfig configures the MCP server transport.
type MCPConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	Addr      string `yaml:"addr" json:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		FPS:           60,
		InboxCapacity: 256,
		LogLevel:      "info",
		LogFormat:     "text",
		Canvas:        CanvasConfig{Width: 800, Height: 600, Background: "white"},
		HTTP:          HTTPConfig{Addr: ":8080"},
		Metrics:       MetricsConfig{Enabled: true},
		Redis:         RedisConfig{Addr: "localhost:6379", Prefix: "turtle:"},
		MCP:           MCPConfig{Transport: "stdio", Addr: ":8081"},
	}
}

// Load reads a configuration file (YAML or JSON) over the defaults. A
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.FPS < 1 || c.FPS > 1000 {
		errs = append(errs, fmt.Errorf("fps %d out of range [1, 1000]", c.FPS))
	}
	if c.InboxCapacity < 1 {
		errs = append(errs, fmt.Errorf("inbox_capacity must be positive, got %d", c.InboxCapacity))
	}
	if c.Canvas.Width < 1 || c.Canvas.Height < 1 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height))
	}
	if _, err := domain.ParseColor(c.Canvas.Background); err != nil {
		errs = append(errs, fmt.Errorf("canvas background: %w", err))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("log_format: %w", err))
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		errs = append(errs, fmt.Errorf("mcp transport %q must be stdio or sse", c.MCP.Transport))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// Background parses the canvas background color.
func (c Config) Background() domain.Color {
	col, err := domain.ParseColor(c.Canvas.Background)
	if err != nil {
		return domain.White
	}
	return col
}
