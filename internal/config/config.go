// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Default
const (
	DefaultPort            = 8080
	DefaultChatModel       = "gemini-2.5-flash-lite"
	DefaultExtractionModel = "gemini-2.5-flash"
	DefaultExportTimeout   = 60 * time.Second
	DefaultPaymentAmount   = "99"
	DefaultPaymentPurpose  = "Resume Builder Access"
	DefaultInstamojoURL    = "https://www.instamojo.com/api/1.1"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Config is the application configuration. Values come from Default, then an optional
// JSON or YAML file, then the environment, then CLI flags.
type Config struct {
	Port        int      `json:"port,omitempty" yaml:"port,omitempty"`
	DatabaseURL string   `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL; empty keeps payments in memory
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`

	Gemini    GeminiConfig    `json:"gemini" yaml:"gemini"`
	Export    ExportConfig    `json:"export" yaml:"export"`
	Payments  PaymentConfig   `json:"payments" yaml:"payments"`
	Log       LogConfig       `json:"log" yaml:"log"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
}

// GeminiConfig selects the credentials and models for the generative service.
type GeminiConfig struct {
	APIKeys         []string `json:"api_keys,omitempty" yaml:"api_keys,omitempty"`
	ChatModel       string   `json:"chat_model,omitempty" yaml:"chat_model,omitempty"`
	ExtractionModel string   `json:"extraction_model,omitempty" yaml:"extraction_model,omitempty"`
}

// ExportConfig configures the headless browser used for PDF export.
type ExportConfig struct {
	ChromePath string        `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
	Timeout    time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// PaymentConfig configures the one-time access payment.
type PaymentConfig struct {
	Required           bool   `json:"required" yaml:"required"`
	InstamojoAPIKey    string `json:"instamojo_api_key,omitempty" yaml:"instamojo_api_key,omitempty"`
	InstamojoAuthToken string `json:"instamojo_auth_token,omitempty" yaml:"instamojo_auth_token,omitempty"`
	InstamojoBaseURL   string `json:"instamojo_base_url,omitempty" yaml:"instamojo_base_url,omitempty"`
	Amount             string `json:"amount,omitempty" yaml:"amount,omitempty"`
	Purpose            string `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	RedirectURL        string `json:"redirect_url,omitempty" yaml:"redirect_url,omitempty"`
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// RateLimitConfig tunes the per-client token buckets.
type RateLimitConfig struct {
	Enabled       bool          `json:"enabled" yaml:"enabled"`
	DefaultLimit  int           `json:"default_limit,omitempty" yaml:"default_limit,omitempty"`
	DefaultWindow time.Duration `json:"default_window,omitempty" yaml:"default_window,omitempty"`
	Whitelist     []string      `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`
	Blacklist     []string      `json:"blacklist,omitempty" yaml:"blacklist,omitempty"`
}

// GatewayConfigured reports whether Instamojo credentials are present.
func (p PaymentConfig) GatewayConfigured() bool {
	return p.InstamojoAPIKey != "" && p.InstamojoAuthToken != ""
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Port: DefaultPort,
		Gemini: GeminiConfig{
			ChatModel:       DefaultChatModel,
			ExtractionModel: DefaultExtractionModel,
		},
		Export: ExportConfig{Timeout: DefaultExportTimeout},
		Payments: PaymentConfig{
			Required:         true,
			InstamojoBaseURL: DefaultInstamojoURL,
			Amount:           DefaultPaymentAmount,
			Purpose:          DefaultPaymentPurpose,
		},
		Log: LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			DefaultLimit:  600,
			DefaultWindow: time.Minute,
		},
	}
}

// LoadConfig loads configuration from a JSON or YAML file on top of Default.
// Files ending in .yaml or .yml are parsed as YAML; anything else as JSON.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return cfg, nil
}

// Load builds the effective configuration: defaults, the file at path when path is not
// empty, then the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays the process environment on the configuration.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v, ok := get("DATABASE_URL"); ok {
		c.DatabaseURL = v
	}
	if v, ok := get("CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(v)
	}

	if v, ok := get("GEMINI_API_KEYS"); ok {
		c.Gemini.APIKeys = splitList(v)
	}
	if v, ok := get("GEMINI_CHAT_MODEL"); ok {
		c.Gemini.ChatModel = v
	}
	if v, ok := get("GEMINI_EXTRACTION_MODEL"); ok {
		c.Gemini.ExtractionModel = v
	}

	if v, ok := get("CHROME_PATH"); ok {
		c.Export.ChromePath = v
	}
	if v, ok := get("EXPORT_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid EXPORT_TIMEOUT: %v", err)
		}
		c.Export.Timeout = d
	}

	if v, ok := get("REQUIRE_PAYMENT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid REQUIRE_PAYMENT: %v", err)
		}
		c.Payments.Required = b
	}
	if v, ok := get("INSTAMOJO_API_KEY"); ok {
		c.Payments.InstamojoAPIKey = v
	}
	if v, ok := get("INSTAMOJO_AUTH_TOKEN"); ok {
		c.Payments.InstamojoAuthToken = v
	}
	if v, ok := get("INSTAMOJO_BASE_URL"); ok {
		c.Payments.InstamojoBaseURL = v
	}
	if v, ok := get("PAYMENT_AMOUNT"); ok {
		c.Payments.Amount = v
	}
	if v, ok := get("PAYMENT_PURPOSE"); ok {
		c.Payments.Purpose = v
	}
	if v, ok := get("PAYMENT_REDIRECT_URL"); ok {
		c.Payments.RedirectURL = v
	}

	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Log.Format = v
	}

	if v, ok := get("RATE_LIMIT_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_ENABLED: %v", err)
		}
		c.RateLimit.Enabled = b
	}
	if v, ok := get("RATE_LIMIT_DEFAULT_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_DEFAULT_LIMIT: %v", err)
		}
		c.RateLimit.DefaultLimit = n
	}
	if v, ok := get("RATE_LIMIT_DEFAULT_WINDOW"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_DEFAULT_WINDOW: %v", err)
		}
		c.RateLimit.DefaultWindow = d
	}
	if v, ok := get("RATE_LIMIT_WHITELIST"); ok {
		c.RateLimit.Whitelist = splitList(v)
	}
	if v, ok := get("RATE_LIMIT_BLACKLIST"); ok {
		c.RateLimit.Blacklist = splitList(v)
	}
	return nil
}

// Validate checks that the configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Export.Timeout < 0 {
		return fmt.Errorf("export timeout must be non-negative")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultLimit < 1 {
			return fmt.Errorf("rate_limit.default_limit must be at least 1, got %d", c.RateLimit.DefaultLimit)
		}
		if c.RateLimit.DefaultWindow <= 0 {
			return fmt.Errorf("rate_limit.default_window must be positive")
		}
	}
	if c.Payments.Required && c.Payments.Amount == "" {
		return fmt.Errorf("payments.amount is required when payments are required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
