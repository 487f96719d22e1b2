// Package config loads and merges the optional config.toml file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default artifact locations, relative to the working directory. These
// follow the standard contract build layout and can be overridden in
// config.toml.
const (
	DefaultWrapperArtifact = "vvet/build/contracts/VVET9.json"
	DefaultFactoryArtifact = "core/build/contracts/UniswapV2Factory.json"
	DefaultRouterArtifact  = "periphery/build/contracts/UniswapV2Router02.json"
)

// Config is the effective deployer configuration after merging defaults
// with config.toml values.
type Config struct {
	MinEnergy       int64 // display units
	PollInterval    time.Duration
	WaitTimeout     time.Duration
	WrapperArtifact string
	FactoryArtifact string
	RouterArtifact  string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MinEnergy:       14_000,
		PollInterval:    3 * time.Second,
		WaitTimeout:     20 * time.Second,
		WrapperArtifact: DefaultWrapperArtifact,
		FactoryArtifact: DefaultFactoryArtifact,
		RouterArtifact:  DefaultRouterArtifact,
	}
}

// FileConfig represents the raw config.toml contents. All fields are
// pointers so "not set" is distinguishable from a zero value.
type FileConfig struct {
	NoColor      *bool   `toml:"no_color"`
	Verbose      *bool   `toml:"verbose"`
	MinEnergy    *int64  `toml:"min_energy"`
	PollInterval *string `toml:"poll_interval"`
	WaitTimeout  *string `toml:"wait_timeout"`

	Artifacts struct {
		Wrapper *string `toml:"wrapper"`
		Factory *string `toml:"factory"`
		Router  *string `toml:"router"`
	} `toml:"artifacts"`
}

// Load reads a config file. The explicit path wins; otherwise ./config.toml
// is used when present. A missing file is not an error and yields an empty
// FileConfig.
func Load(explicitPath string) (*FileConfig, error) {
	path := explicitPath
	if path == "" {
		if _, err := os.Stat("./config.toml"); err == nil {
			path = "./config.toml"
		} else {
			return &FileConfig{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fileCfg FileConfig
	if err := toml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fileCfg, nil
}

// Apply merges file values onto the configuration.
func (c *Config) Apply(fileCfg *FileConfig) error {
	if fileCfg == nil {
		return nil
	}
	if fileCfg.MinEnergy != nil {
		c.MinEnergy = *fileCfg.MinEnergy
	}
	if fileCfg.PollInterval != nil {
		interval, err := time.ParseDuration(*fileCfg.PollInterval)
		if err != nil {
			return fmt.Errorf("invalid poll_interval: %w", err)
		}
		c.PollInterval = interval
	}
	if fileCfg.WaitTimeout != nil {
		timeout, err := time.ParseDuration(*fileCfg.WaitTimeout)
		if err != nil {
			return fmt.Errorf("invalid wait_timeout: %w", err)
		}
		c.WaitTimeout = timeout
	}
	if fileCfg.Artifacts.Wrapper != nil {
		c.WrapperArtifact = *fileCfg.Artifacts.Wrapper
	}
	if fileCfg.Artifacts.Factory != nil {
		c.FactoryArtifact = *fileCfg.Artifacts.Factory
	}
	if fileCfg.Artifacts.Router != nil {
		c.RouterArtifact = *fileCfg.Artifacts.Router
	}
	return nil
}
