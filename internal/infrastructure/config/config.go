// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	pcBudget := cfg.Optimizer.PCBudget
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Optimizer     OptimizerConfig     `yaml:"optimizer"`
	LLM           LLMConfig           `yaml:"llm"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// OptimizerConfig holds defaults applied when a request omits them
type OptimizerConfig struct {
	Objective    string  `yaml:"objective"`
	PCBudget     float64 `yaml:"pc_budget"`
	MobileBudget float64 `yaml:"mobile_budget"`
	// Persist stores every run in the database
	Persist bool `yaml:"persist"`
}

// LLMConfig holds chat completion settings for keyword categorization.
// Categorization is disabled when APIKey is empty.
type LLMConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Enabled reports whether a categorizer can be built.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${OPENAI_API_KEY})
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the configuration used for any unset field.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8085,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Storage: StorageConfig{
			DatabasePath: "rankbudget.db",
		},
		Optimizer: OptimizerConfig{
			Objective: "clicks",
			Persist:   true,
		},
		LLM: LLMConfig{
			Model:   "gpt-4o",
			Timeout: 60 * time.Second,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	d := Defaults()
	return &Config{
		Server: ServerConfig{
			Port:           getEnvInt("RANKBUDGET_PORT", d.Server.Port),
			AllowedOrigins: getEnvList("RANKBUDGET_ALLOWED_ORIGINS", d.Server.AllowedOrigins),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("RANKBUDGET_DB_PATH", d.Storage.DatabasePath),
		},
		Optimizer: OptimizerConfig{
			Objective:    getEnv("RANKBUDGET_OBJECTIVE", d.Optimizer.Objective),
			PCBudget:     getEnvFloat("RANKBUDGET_PC_BUDGET", 0),
			MobileBudget: getEnvFloat("RANKBUDGET_MOBILE_BUDGET", 0),
			Persist:      getEnvBool("RANKBUDGET_PERSIST", d.Optimizer.Persist),
		},
		LLM: LLMConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   getEnv("OPENAI_MODEL", d.LLM.Model),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Timeout: getEnvDuration("OPENAI_TIMEOUT", d.LLM.Timeout),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", d.Observability.Logging.Level),
				Format: getEnv("LOG_FORMAT", d.Observability.Logging.Format),
			},
			Metrics: MetricsConfig{
				Enabled: getEnvBool("METRICS_ENABLED", d.Observability.Metrics.Enabled),
				Path:    getEnv("METRICS_PATH", d.Observability.Metrics.Path),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Optimizer.PCBudget < 0 || c.Optimizer.MobileBudget < 0 {
		errs = append(errs, errors.New("optimizer budgets must not be negative"))
	}
	switch strings.ToLower(c.Observability.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("observability.logging.format %q must be text or json", c.Observability.Logging.Format))
	}
	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("observability.metrics.path %q must start with /", c.Observability.Metrics.Path))
	}
	return errors.Join(errs...)
}

// GetAPIKey retrieves an API key from config first, then tries multiple environment variable names
// Usage: GetAPIKey(cfg.LLM.APIKey, "OPENAI_API_KEY", "OPENAI_APIKEY")
func (c *Config) GetAPIKey(configValue string, envVarNames ...string) string {
	if configValue != "" {
		return configValue
	}

	for _, envVar := range envVarNames {
		if val := os.Getenv(envVar); val != "" {
			return val
		}
	}

	return ""
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
