package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	defaultLimit := getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300)
	defaultWindow := getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute)
	cleanupInterval := getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute)
	contactLimit := getEnvInt("RATE_LIMIT_CONTACT_PER_HOUR", 10)

	whitelist := parseIPList(getEnvString("RATE_LIMIT_WHITELIST", ""))
	blacklist := parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", ""))

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   defaultWindow,
		CleanupInterval: cleanupInterval,
		Whitelist:       whitelist,
		Blacklist:       blacklist,
		EndpointConfigs: EndpointConfigs(contactLimit),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations with the default contact limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return EndpointConfigs(10)
}

// EndpointConfigs returns the endpoint-specific configurations.
// contactPerHour bounds submissions per client through either contact route.
func EndpointConfigs(contactPerHour int) []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: outbound relay calls and credential checks (strictest limits)
		{Path: "/contact", Method: "POST", Limit: contactPerHour, Window: time.Hour, Burst: 3},
		{Path: "/api/contact", Method: "POST", Limit: contactPerHour, Window: time.Hour, Burst: 3},
		{Path: "/admin/login", Method: "POST", Limit: 5, Window: 15 * time.Minute, Burst: 5},

		// Tier 2: cookie writes and admin reads (moderate limits)
		{Path: "/theme", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/admin/", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},

		// Tier 3: page views - handled by default limit
		// Tier 4: health check and static assets (unlimited) - handled by special case in matcher
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
