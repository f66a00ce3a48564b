// Package config provides configuration loading and management for pixvox.
// It handles loading configuration from YAML or TOML files and provides
// default values.
package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"pixvox/pkg/voxerr"
)

// Config represents the application configuration
type Config struct {
	// Input and output files
	Paths struct {
		// InputImage is the front raster image to voxelize
		InputImage string `yaml:"inputImage" toml:"inputImage"`

		// OutputModel is the mesh file to write; its extension selects the format
		OutputModel string `yaml:"outputModel" toml:"outputModel"`
	} `yaml:"paths" toml:"paths"`

	// Voxel placement parameters
	Voxel struct {
		// Unit is the half-extent of each voxel cube
		Unit float64 `yaml:"unit" toml:"unit"`

		// Depth is how many layers each opaque pixel is extruded into
		Depth int `yaml:"depth" toml:"depth"`
	} `yaml:"voxel" toml:"voxel"`

	// Output parameters
	Output struct {
		// SlicesDir, when set, receives PNG slices of the voxel grid
		SlicesDir string `yaml:"slicesDir" toml:"slicesDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose" toml:"verbose"`
	} `yaml:"output" toml:"output"`

	// Watch re-runs the conversion whenever the input image changes
	Watch bool `yaml:"watch" toml:"watch"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Voxel.Unit = 1.0
	cfg.Voxel.Depth = 1

	cfg.Output.Verbose = false

	return cfg
}

// Validate checks the required paths and the voxel parameters.
func (c *Config) Validate() error {
	if c.Paths.OutputModel == "" {
		return voxerr.Config("config", "output model path is required")
	}
	if c.Paths.InputImage == "" {
		return voxerr.Config("config", "input image path is required")
	}
	if !(c.Voxel.Unit > 0) || math.IsInf(c.Voxel.Unit, 0) {
		return voxerr.Config("config", "unit must be a finite value greater than 0, got %v", c.Voxel.Unit)
	}
	if c.Voxel.Depth <= 0 {
		return voxerr.Config("config", "depth must be greater than 0, got %d", c.Voxel.Depth)
	}
	return nil
}

type codec struct {
	unmarshal func([]byte, interface{}) error
	marshal   func(interface{}) ([]byte, error)
}

func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return codec{unmarshal: toml.Unmarshal, marshal: toml.Marshal}
	default:
		return codec{unmarshal: yaml.Unmarshal, marshal: yaml.Marshal}
	}
}

// LoadConfig loads configuration from a YAML or TOML file, chosen by
// extension. If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, voxerr.IO("load config", configPath, err, "error reading config file")
	}

	if err := codecFor(configPath).unmarshal(data, cfg); err != nil {
		return nil, &voxerr.Error{
			Kind: voxerr.KindConfig,
			Op:   "load config",
			Path: configPath,
			Msg:  "error parsing config file",
			Err:  errors.WithStack(err),
		}
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML or TOML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return voxerr.IO("save config", dir, err, "error creating config directory")
	}

	data, err := codecFor(configPath).marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return voxerr.IO("save config", configPath, err, "error writing config file")
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
