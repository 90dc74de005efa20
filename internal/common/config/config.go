// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct. It is loaded once
// at startup and passed into constructors; nothing reads it ambiently.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Processor ProcessorConfig `mapstructure:"processor"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProcessorConfig configures the downstream task processor.
type ProcessorConfig struct {
	Provider string `mapstructure:"provider"` // "openai" or "static"
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

// TimeoutDuration returns the processor call bound as a time.Duration.
func (p ProcessorConfig) TimeoutDuration() time.Duration {
	return time.Duration(p.Timeout) * time.Millisecond
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
