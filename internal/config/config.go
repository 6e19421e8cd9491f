// Package config loads gbcam settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/AnyUserName/gbcam/internal/pipeline"
	"github.com/AnyUserName/gbcam/internal/profile"
	"gopkg.in/yaml.v2"
)

// Defaults.
const (
	DefaultListen         = "localhost:8000"
	DefaultStorageDir     = "./images"
	DefaultMaxUploadBytes = 32 << 20
)

// Config holds server and pipeline settings.
type Config struct {
	Listen         string `yaml:"listen"`
	StorageDir     string `yaml:"storage_dir"`
	Profile        string `yaml:"profile"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	MaxPixels      int    `yaml:"max_pixels"`
	Workers        int    `yaml:"workers"` // batch workers, 0 = NumCPU
}

// Default returns a config with every field at its default.
func Default() Config {
	return Config{
		Listen:         DefaultListen,
		StorageDir:     DefaultStorageDir,
		Profile:        profile.DefaultName,
		MaxUploadBytes: DefaultMaxUploadBytes,
		MaxPixels:      pipeline.DefaultMaxPixels,
	}
}

// Load reads path and fills unset fields with defaults. An empty path
// returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	c.fillDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.StorageDir == "" {
		c.StorageDir = d.StorageDir
	}
	if c.Profile == "" {
		c.Profile = d.Profile
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.MaxPixels == 0 {
		c.MaxPixels = d.MaxPixels
	}
}

// Validate checks field ranges and that the profile exists.
func (c Config) Validate() error {
	var errs []error
	if c.MaxUploadBytes < 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes must not be negative, got %d", c.MaxUploadBytes))
	}
	if c.MaxPixels < 0 {
		errs = append(errs, fmt.Errorf("max_pixels must not be negative, got %d", c.MaxPixels))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if _, err := profile.Get(c.Profile); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
