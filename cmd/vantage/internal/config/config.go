// Package config loads the vantage.yaml configuration for the serve
// command. An absent file yields the defaults; a malformed or invalid
// file is an error surfaced to the operator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/recera/vantage/internal/validate"
	"github.com/recera/vantage/pkg/viewport"
)

// FileName is the configuration file looked up in the project directory.
const FileName = "vantage.yaml"

// Config is the vantage.yaml document.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Viewport ViewportConfig `yaml:"viewport"`
}

// ServerConfig configures the serve command's HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"gte=0,lte=65535"`
}

// ViewportConfig configures the controllers backing live sessions. The
// zero value of any field falls through to the controller's own default.
type ViewportConfig struct {
	MinZoom     float64 `yaml:"minZoom" validate:"gte=0"`
	MaxZoom     float64 `yaml:"maxZoom" validate:"gte=0"`
	ZoomStep    float64 `yaml:"zoomStep" validate:"gte=0"`
	PanEnabled  *bool   `yaml:"panEnabled"`
	ZoomEnabled *bool   `yaml:"zoomEnabled"`
	AnimationMs int     `yaml:"animationMs" validate:"gte=0"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8090,
		},
		Viewport: ViewportConfig{
			MinZoom:  viewport.DefaultMinZoom,
			MaxZoom:  viewport.DefaultMaxZoom,
			ZoomStep: viewport.DefaultZoomStep,
		},
	}
}

// Load reads the configuration from dir. A missing file returns
// Default(); read, parse, and validation failures are errors.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads the configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	if cfg.Viewport.MaxZoom < cfg.Viewport.MinZoom {
		return nil, fmt.Errorf("config: invalid %s: maxZoom %g below minZoom %g",
			path, cfg.Viewport.MaxZoom, cfg.Viewport.MinZoom)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := Default()
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaults.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Viewport.MinZoom == 0 {
		cfg.Viewport.MinZoom = defaults.Viewport.MinZoom
	}
	if cfg.Viewport.MaxZoom == 0 {
		cfg.Viewport.MaxZoom = defaults.Viewport.MaxZoom
	}
	if cfg.Viewport.ZoomStep == 0 {
		cfg.Viewport.ZoomStep = defaults.Viewport.ZoomStep
	}
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Controller converts the viewport section into a controller
// configuration.
func (v ViewportConfig) Controller() viewport.Config {
	return viewport.Config{
		MinZoom:           v.MinZoom,
		MaxZoom:           v.MaxZoom,
		ZoomStep:          v.ZoomStep,
		PanEnabled:        v.PanEnabled,
		ZoomEnabled:       v.ZoomEnabled,
		AnimationDuration: time.Duration(v.AnimationMs) * time.Millisecond,
	}
}
