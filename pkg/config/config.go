package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	Upload   UploadConfig
	Notices  NoticeConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// AnalysisConfig holds the remote audio-analysis service settings
type AnalysisConfig struct {
	BaseURL         string        `envconfig:"ANALYSIS_BASE_URL" default:"http://127.0.0.1:8000"`
	APIKey          string        `envconfig:"ANALYSIS_API_KEY"`
	PollInterval    time.Duration `envconfig:"ANALYSIS_POLL_INTERVAL" default:"2s"`
	MaxPollAttempts int           `envconfig:"ANALYSIS_MAX_POLL_ATTEMPTS" default:"30"`
	RequestTimeout  time.Duration `envconfig:"ANALYSIS_REQUEST_TIMEOUT" default:"0"` // 0 waits as long as the service needs
}

// UploadConfig holds local file validation limits
type UploadConfig struct {
	MaxFileSizeMB int `envconfig:"UPLOAD_MAX_FILE_SIZE_MB" default:"10"`
}

// NoticeConfig controls how long failure notices stay visible
type NoticeConfig struct {
	TTL time.Duration `envconfig:"NOTICE_TTL" default:"10m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Analysis.BaseURL == "" {
		return fmt.Errorf("ANALYSIS_BASE_URL is required")
	}
	if c.Analysis.PollInterval <= 0 {
		return fmt.Errorf("ANALYSIS_POLL_INTERVAL must be positive")
	}
	if c.Analysis.RequestTimeout < 0 {
		return fmt.Errorf("ANALYSIS_REQUEST_TIMEOUT must not be negative")
	}
	if c.Analysis.MaxPollAttempts <= 0 {
		return fmt.Errorf("ANALYSIS_MAX_POLL_ATTEMPTS must be positive")
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILE_SIZE_MB must be positive")
	}
	return nil
}

// MaxFileSize returns the upload limit in bytes
func (c *UploadConfig) MaxFileSize() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// GetServerAddr returns the listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}
