// Package config resolves process configuration for the memowall binaries:
// defaults, then an optional YAML file, then the environment (with .env support).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/memowall/pkg/core"
)

// Environment variables.
const (
	EnvConfig    = "MEMOWALL_CONFIG"
	EnvAddr      = "MEMOWALL_ADDR"
	EnvPort      = "PORT"
	EnvStore     = "MEMOWALL_STORE"
	EnvPath      = "MEMOWALL_PATH"
	EnvKey       = "MEMOWALL_KEY"
	EnvQuota     = "MEMOWALL_QUOTA"
	EnvViewportW = "MEMOWALL_VIEWPORT_W"
	EnvViewportH = "MEMOWALL_VIEWPORT_H"
	EnvReadOnly  = "MEMOWALL_READ_ONLY"
	EnvWatch     = "MEMOWALL_WATCH"
)

// DefaultConfigFile is read when present and no file was named explicitly.
const DefaultConfigFile = "memowall.yaml"

// Config is the resolved process configuration.
type Config struct {
	Addr     string        `yaml:"addr"`
	Store    string        `yaml:"store"`
	Path     string        `yaml:"path"`
	Key      string        `yaml:"key"`
	Quota    int64         `yaml:"quota"`
	Viewport core.Viewport `yaml:"viewport"`
	ReadOnly bool          `yaml:"read_only"`
	Watch    bool          `yaml:"watch"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:     ":8080",
		Store:    "fs",
		Path:     ".memowall",
		Key:      core.DefaultStorageKey,
		Viewport: core.DefaultViewport,
		Watch:    true,
	}
}

// Load resolves the configuration.
//
// Order: defaults, YAML file (file argument, else $MEMOWALL_CONFIG, else
// ./memowall.yaml if present), then environment variables. A .env file in the
// working directory is loaded first without overriding the real environment.
func Load(file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	explicit := true
	if file == "" {
		file = os.Getenv(EnvConfig)
	}
	if file == "" {
		file = DefaultConfigFile
		explicit = false
	}
	if err := cfg.mergeFile(file, explicit); err != nil {
		return Config{}, err
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(file string, required bool) error {
	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", file, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid config %s: %w", file, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if port := os.Getenv(EnvPort); port != "" {
		c.Addr = ":" + port
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		c.Store = v
	}
	if v := os.Getenv(EnvPath); v != "" {
		c.Path = v
	}
	if v := os.Getenv(EnvKey); v != "" {
		c.Key = v
	}

	var err error
	if c.Quota, err = envInt(EnvQuota, c.Quota); err != nil {
		return err
	}
	if c.Viewport.Width, err = envFloat(EnvViewportW, c.Viewport.Width); err != nil {
		return err
	}
	if c.Viewport.Height, err = envFloat(EnvViewportH, c.Viewport.Height); err != nil {
		return err
	}
	if c.ReadOnly, err = envBool(EnvReadOnly, c.ReadOnly); err != nil {
		return err
	}
	if c.Watch, err = envBool(EnvWatch, c.Watch); err != nil {
		return err
	}
	return nil
}

func envInt(name string, def int64) (int64, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return n, nil
}

func envFloat(name string, def float64) (float64, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return f, nil
}

func envBool(name string, def bool) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}
