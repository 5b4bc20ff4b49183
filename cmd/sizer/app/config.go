package app

import (
	"os"

	"github.com/agentstation/sizer/internal/config"
)

// Config holds the CLI configuration: global flags, logging settings and
// the pipeline settings loaded by internal/config.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// ConfigFile is the --config flag value.
	ConfigFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Pipeline holds the settings shared with the library.
	Pipeline *config.Config
}

// LoadConfig returns the CLI configuration before flags are parsed.
// Pipeline settings start at their defaults and are loaded once the
// --config flag is known.
func LoadConfig() *Config {
	return &Config{
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
		Pipeline:  config.Defaults(),
	}
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
