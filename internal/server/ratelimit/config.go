package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" matches by prefix)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Settings are the user-tunable limiter values.
type Settings struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	Whitelist     []string
	Blacklist     []string
}

// NewConfig builds a limiter configuration from settings, adding the default
// endpoint tiers.
func NewConfig(s Settings) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}
	limit := s.DefaultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	window := s.DefaultWindow
	if window <= 0 {
		window = DefaultWindow
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    limit,
		DefaultWindow:   window,
		CleanupInterval: DefaultCleanupInterval,
		Whitelist:       toSet(s.Whitelist),
		Blacklist:       toSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model calls and browser exports (strictest limits)
		{Path: "/session/messages", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/session/greet", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/session/import", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/session/export", Method: "GET", Limit: 20, Window: time.Hour, Burst: 3},

		// Payment gateway calls
		{Path: "/payments/create", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/payments/verify", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		// Reads and cheap writes use the default limit; /health and /templates are unlimited
	}
}

// toSet converts a list of client identifiers into a lookup set.
func toSet(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			result[item] = true
		}
	}
	return result
}
