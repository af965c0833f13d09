package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration options for the task list application
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Timing      TimingConfig      `mapstructure:"timing"`
	Validation  ValidationConfig  `mapstructure:"validation"`
	Display     DisplayConfig     `mapstructure:"display"`
	Application ApplicationConfig `mapstructure:"application"`
	Server      ServerConfig      `mapstructure:"server"`
	Commands    CommandsConfig    `mapstructure:"commands"`
}

// StorageConfig holds durable store configuration
type StorageConfig struct {
	Dir            string        `mapstructure:"dir" env:"TL_STORE_DIR"`
	Filename       string        `mapstructure:"filename" env:"TL_STORE_FILENAME"`
	Key            string        `mapstructure:"key" env:"TL_STORE_KEY"`
	MaxBytes       int           `mapstructure:"max_bytes" env:"TL_STORE_MAX_BYTES"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout" env:"TL_STORE_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" env:"TL_STORE_WRITE_TIMEOUT"`
	DirPermissions uint32        `mapstructure:"dir_permissions" env:"TL_STORE_DIR_PERMISSIONS"`
}

// TimingConfig holds the simulated latencies of store calls and deferred adds
type TimingConfig struct {
	SaveDelay        time.Duration `mapstructure:"save_delay" env:"TL_SAVE_DELAY"`
	LoadDelay        time.Duration `mapstructure:"load_delay" env:"TL_LOAD_DELAY"`
	DeferredAddDelay time.Duration `mapstructure:"deferred_add_delay" env:"TL_DEFERRED_ADD_DELAY"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskNameMaxLength int `mapstructure:"task_name_max_length" env:"TL_VALIDATION_TASK_NAME_MAX"`
}

// DisplayConfig holds row label configuration
type DisplayConfig struct {
	CompleteLabel   string `mapstructure:"complete_label" env:"TL_DISPLAY_COMPLETE_LABEL"`
	IncompleteLabel string `mapstructure:"incomplete_label" env:"TL_DISPLAY_INCOMPLETE_LABEL"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" env:"TL_APP_TIMEOUT"`
	Verbose   bool          `mapstructure:"verbose" env:"TL_APP_VERBOSE"`
	AssumeYes bool          `mapstructure:"assume_yes" env:"TL_ASSUME_YES"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr" env:"TL_SERVER_ADDR"`
}

// CommandsConfig holds command-specific defaults
type CommandsConfig struct {
	AddDefaultMode      string `mapstructure:"add_default_mode" env:"TL_ADD_DEFAULT_MODE"`
	OutputDefaultFormat string `mapstructure:"output_default_format" env:"TL_OUTPUT_DEFAULT_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDir := filepath.Join(homeDir, ".tl")

	return &Config{
		Storage: StorageConfig{
			Dir:            defaultDir,
			Filename:       "tl.db",
			Key:            "tasks",
			MaxBytes:       5 * 1024 * 1024,
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Timing: TimingConfig{
			SaveDelay:        time.Second,
			LoadDelay:        time.Second,
			DeferredAddDelay: 2 * time.Second,
		},
		Validation: ValidationConfig{
			TaskNameMaxLength: 255,
		},
		Display: DisplayConfig{
			CompleteLabel:   "Complete",
			IncompleteLabel: "Incomplete",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Commands: CommandsConfig{
			AddDefaultMode:      "immediate",
			OutputDefaultFormat: "csv",
		},
	}
}

// GetDatabasePath returns the full path to the store file
func (c *Config) GetDatabasePath() string {
	if c.Storage.Filename == ":memory:" {
		return c.Storage.Filename
	}
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if dir := os.Getenv("TL_STORE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("TL_STORE_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if key := os.Getenv("TL_STORE_KEY"); key != "" {
		c.Storage.Key = key
	}
	if maxBytes := os.Getenv("TL_STORE_MAX_BYTES"); maxBytes != "" {
		c.Storage.MaxBytes = ParseIntWithFallback(maxBytes, c.Storage.MaxBytes)
	}
	if timeout := os.Getenv("TL_STORE_QUERY_TIMEOUT"); timeout != "" {
		c.Storage.QueryTimeout = ParseDurationWithFallback(timeout, c.Storage.QueryTimeout)
	}
	if timeout := os.Getenv("TL_STORE_WRITE_TIMEOUT"); timeout != "" {
		c.Storage.WriteTimeout = ParseDurationWithFallback(timeout, c.Storage.WriteTimeout)
	}
	if perms := os.Getenv("TL_STORE_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// Timing configuration
	if d := os.Getenv("TL_SAVE_DELAY"); d != "" {
		c.Timing.SaveDelay = ParseDurationWithFallback(d, c.Timing.SaveDelay)
	}
	if d := os.Getenv("TL_LOAD_DELAY"); d != "" {
		c.Timing.LoadDelay = ParseDurationWithFallback(d, c.Timing.LoadDelay)
	}
	if d := os.Getenv("TL_DEFERRED_ADD_DELAY"); d != "" {
		c.Timing.DeferredAddDelay = ParseDurationWithFallback(d, c.Timing.DeferredAddDelay)
	}

	// Validation configuration
	if maxLen := os.Getenv("TL_VALIDATION_TASK_NAME_MAX"); maxLen != "" {
		c.Validation.TaskNameMaxLength = ParseIntWithFallback(maxLen, c.Validation.TaskNameMaxLength)
	}

	// Display configuration
	if label := os.Getenv("TL_DISPLAY_COMPLETE_LABEL"); label != "" {
		c.Display.CompleteLabel = label
	}
	if label := os.Getenv("TL_DISPLAY_INCOMPLETE_LABEL"); label != "" {
		c.Display.IncompleteLabel = label
	}

	// Application configuration
	if timeout := os.Getenv("TL_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TL_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}
	if yes := os.Getenv("TL_ASSUME_YES"); yes != "" {
		c.Application.AssumeYes = ParseBoolWithFallback(yes, c.Application.AssumeYes)
	}

	// Server configuration
	if addr := os.Getenv("TL_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	// Commands configuration
	if mode := os.Getenv("TL_ADD_DEFAULT_MODE"); mode != "" {
		c.Commands.AddDefaultMode = mode
	}
	if format := os.Getenv("TL_OUTPUT_DEFAULT_FORMAT"); format != "" {
		c.Commands.OutputDefaultFormat = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "store directory cannot be empty"}
	}
	if c.Storage.Filename == "" {
		return &ConfigError{Field: "storage.filename", Message: "store filename cannot be empty"}
	}
	if c.Storage.Key == "" {
		return &ConfigError{Field: "storage.key", Message: "store key cannot be empty"}
	}
	if c.Storage.MaxBytes <= 0 {
		return &ConfigError{Field: "storage.max_bytes", Message: "store quota must be positive"}
	}
	if c.Storage.QueryTimeout <= 0 {
		return &ConfigError{Field: "storage.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}

	if c.Timing.SaveDelay < 0 || c.Timing.LoadDelay < 0 || c.Timing.DeferredAddDelay < 0 {
		return &ConfigError{Field: "timing", Message: "delays cannot be negative"}
	}

	if c.Validation.TaskNameMaxLength < 1 {
		return &ConfigError{Field: "validation.task_name_max_length", Message: "task name maximum length must be at least 1"}
	}

	if c.Display.CompleteLabel == "" || c.Display.IncompleteLabel == "" {
		return &ConfigError{Field: "display", Message: "status labels cannot be empty"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	switch c.Commands.AddDefaultMode {
	case "immediate", "delayed":
	default:
		return &ConfigError{Field: "commands.add_default_mode", Message: "add mode must be immediate or delayed"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
