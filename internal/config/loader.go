package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
	path   string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// WithFile sets an explicit config file; an empty path restores discovery
func (l *Loader) WithFile(path string) *Loader {
	l.path = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML config file, if one exists
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// FilePath returns the config file the loader reads, whether or not it exists
func (l *Loader) FilePath() string {
	if l.path != "" {
		return l.path
	}
	if env := os.Getenv("TL_CONFIG"); env != "" {
		return env
	}
	return filepath.Join(l.config.Storage.Dir, "config.yaml")
}

func (l *Loader) loadFile() error {
	path := l.FilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// A missing file is only an error when it was asked for explicitly
		if l.path != "" {
			return fmt.Errorf("config file not found: %s", path)
		}
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := v.Unmarshal(l.config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Storage overrides
	StoreDir      *string
	StoreFilename *string
	StoreKey      *string

	// Timing overrides
	SaveDelay        *time.Duration
	LoadDelay        *time.Duration
	DeferredAddDelay *time.Duration

	// Application overrides
	Timeout   *time.Duration
	Verbose   *bool
	AssumeYes *bool

	// Server overrides
	Addr *string

	// Commands overrides
	AddDefaultMode      *string
	OutputDefaultFormat *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.StoreDir != nil {
		config.Storage.Dir = *overrides.StoreDir
	}
	if overrides.StoreFilename != nil {
		config.Storage.Filename = *overrides.StoreFilename
	}
	if overrides.StoreKey != nil {
		config.Storage.Key = *overrides.StoreKey
	}

	if overrides.SaveDelay != nil {
		config.Timing.SaveDelay = *overrides.SaveDelay
	}
	if overrides.LoadDelay != nil {
		config.Timing.LoadDelay = *overrides.LoadDelay
	}
	if overrides.DeferredAddDelay != nil {
		config.Timing.DeferredAddDelay = *overrides.DeferredAddDelay
	}

	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
	if overrides.AssumeYes != nil {
		config.Application.AssumeYes = *overrides.AssumeYes
	}

	if overrides.Addr != nil {
		config.Server.Addr = *overrides.Addr
	}

	if overrides.AddDefaultMode != nil {
		config.Commands.AddDefaultMode = *overrides.AddDefaultMode
	}
	if overrides.OutputDefaultFormat != nil {
		config.Commands.OutputDefaultFormat = *overrides.OutputDefaultFormat
	}
}
