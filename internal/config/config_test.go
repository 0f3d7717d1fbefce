package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"port": 9000,
		"gemini": {"api_keys": ["k1", "k2"], "chat_model": "gemini-chat"},
		"payments": {"required": false, "amount": "149"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Gemini.APIKeys)
	assert.Equal(t, "gemini-chat", cfg.Gemini.ChatModel)
	assert.Equal(t, DefaultExtractionModel, cfg.Gemini.ExtractionModel, "unset fields keep defaults")
	assert.False(t, cfg.Payments.Required)
	assert.Equal(t, "149", cfg.Payments.Amount)
	assert.Equal(t, DefaultPaymentPurpose, cfg.Payments.Purpose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
port: 8181
database_url: postgres://localhost/resume
export:
  chrome_path: /usr/bin/chromium
  timeout: 90s
log:
  level: debug
  format: json
rate_limit:
  enabled: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, "postgres://localhost/resume", cfg.DatabaseURL)
	assert.Equal(t, "/usr/bin/chromium", cfg.Export.ChromePath)
	assert.Equal(t, 90*time.Second, cfg.Export.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Payments.Required)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "empty path",
			path:    func(*testing.T) string { return "" },
			wantErr: "config path is empty",
		},
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantErr: "failed to read config file",
		},
		{
			name:    "invalid JSON",
			path:    func(t *testing.T) string { return writeConfig(t, "config.json", `{ invalid json }`) },
			wantErr: "failed to parse config JSON",
		},
		{
			name:    "invalid YAML",
			path:    func(t *testing.T) string { return writeConfig(t, "config.yml", "port: [unterminated") },
			wantErr: "failed to parse config YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":                      "7070",
		"DATABASE_URL":              "postgres://db/resume",
		"GEMINI_API_KEYS":           " a, b ,,c ",
		"GEMINI_CHAT_MODEL":         "chat-x",
		"GEMINI_EXTRACTION_MODEL":   "extract-x",
		"CHROME_PATH":               "/opt/chrome",
		"EXPORT_TIMEOUT":            "2m",
		"REQUIRE_PAYMENT":           "false",
		"INSTAMOJO_API_KEY":         "api",
		"INSTAMOJO_AUTH_TOKEN":      "token",
		"PAYMENT_REDIRECT_URL":      "https://app.example.com/payment-success",
		"LOG_LEVEL":                 "warn",
		"RATE_LIMIT_DEFAULT_LIMIT":  "30",
		"RATE_LIMIT_DEFAULT_WINDOW": "10s",
		"RATE_LIMIT_WHITELIST":      "127.0.0.1",
		"CORS_ORIGINS":              "http://localhost:5173",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "postgres://db/resume", cfg.DatabaseURL)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Gemini.APIKeys)
	assert.Equal(t, "chat-x", cfg.Gemini.ChatModel)
	assert.Equal(t, "extract-x", cfg.Gemini.ExtractionModel)
	assert.Equal(t, "/opt/chrome", cfg.Export.ChromePath)
	assert.Equal(t, 2*time.Minute, cfg.Export.Timeout)
	assert.False(t, cfg.Payments.Required)
	assert.True(t, cfg.Payments.GatewayConfigured())
	assert.Equal(t, "https://app.example.com/payment-success", cfg.Payments.RedirectURL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 30, cfg.RateLimit.DefaultLimit)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.DefaultWindow)
	assert.Equal(t, []string{"127.0.0.1"}, cfg.RateLimit.Whitelist)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PORT", "eighty"},
		{"EXPORT_TIMEOUT", "forever"},
		{"REQUIRE_PAYMENT", "maybe"},
		{"RATE_LIMIT_ENABLED", "sometimes"},
		{"RATE_LIMIT_DEFAULT_LIMIT", "many"},
		{"RATE_LIMIT_DEFAULT_WINDOW", "1 fortnight"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			lookup := func(key string) (string, bool) {
				if key == tt.key {
					return tt.value, true
				}
				return "", false
			}
			err := Default().applyEnv(lookup)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid "+tt.key)
		})
	}
}

func TestApplyEnv_BlankValuesIgnored(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(string) (string, bool) { return "  ", true }))
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "port too low", mutate: func(c *Config) { c.Port = 0 }, wantErr: "port must be between"},
		{name: "port too high", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "port must be between"},
		{name: "negative timeout", mutate: func(c *Config) { c.Export.Timeout = -time.Second }, wantErr: "export timeout"},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimit.DefaultLimit = 0 }, wantErr: "default_limit"},
		{name: "zero window", mutate: func(c *Config) { c.RateLimit.DefaultWindow = 0 }, wantErr: "default_window"},
		{
			name:   "rate limit disabled skips bucket checks",
			mutate: func(c *Config) { c.RateLimit.Enabled = false; c.RateLimit.DefaultLimit = 0 },
		},
		{name: "missing amount", mutate: func(c *Config) { c.Payments.Amount = "" }, wantErr: "payments.amount"},
		{
			name:   "missing amount without paywall",
			mutate: func(c *Config) { c.Payments.Required = false; c.Payments.Amount = "" },
		},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, "config.json", `{"port": 9000, "log": {"level": "debug"}}`)
	t.Setenv("PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port, "environment overrides the file")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidResult(t *testing.T) {
	path := writeConfig(t, "config.json", `{"port": 99999}`)
	t.Setenv("PORT", "")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port must be between")
}
