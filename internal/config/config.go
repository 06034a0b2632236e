package config

import (
	"os"
	"strconv"
	"strings"

	"cholwatch/internal"
	"cholwatch/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	Ops      OpsConfig
	LogLevel string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string `validate:"required,numeric"`
	GinMode     string `validate:"oneof=debug release test"`
	MaxUploadMB int    `validate:"min=1,max=512"`
}

// AnalysisConfig holds dataset analysis settings.
// Risk thresholds are fixed and deliberately absent here.
type AnalysisConfig struct {
	Column        string `validate:"required"`
	PreviewRows   int    `validate:"min=1,max=100"`
	HistogramBins int    `validate:"min=1,max=200"`
}

// OpsConfig holds the metrics and profiling listener settings
type OpsConfig struct {
	Port    string `validate:"required,numeric"`
	Enabled bool
}

// MaxUploadBytes returns the upload size limit in bytes
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) * 1024 * 1024
}

// Level returns the parsed log level
func (c *Config) Level() internal.LogLevel {
	level, _ := internal.ParseLogLevel(c.LogLevel)
	return level
}

// LoadDotEnv loads a .env file if one exists; a missing file is not an error
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Analysis: *loadAnalysisConfig(),
		Ops:      *loadOpsConfig(),
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "release", MaxUploadMB: 10},
		Analysis: AnalysisConfig{Column: "chol", PreviewRows: 5, HistogramBins: 20},
		Ops:      OpsConfig{Port: "6060", Enabled: true},
		LogLevel: "INFO",
	}
}

func loadServerConfig() *ServerConfig {
	d := Default().Server
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", d.Port),
		GinMode:     getEnvOrDefault("GIN_MODE", d.GinMode),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", d.MaxUploadMB),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	d := Default().Analysis
	return &AnalysisConfig{
		Column:        getEnvOrDefault("CHOL_COLUMN", d.Column),
		PreviewRows:   getEnvIntOrDefault("PREVIEW_ROWS", d.PreviewRows),
		HistogramBins: getEnvIntOrDefault("HISTOGRAM_BINS", d.HistogramBins),
	}
}

func loadOpsConfig() *OpsConfig {
	d := Default().Ops
	return &OpsConfig{
		Port:    getEnvOrDefault("OPS_PORT", d.Port),
		Enabled: getEnvBoolOrDefault("OPS_ENABLED", d.Enabled),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
