package utils

import (
	"maps"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config is a thread-safe view over environment values with typed getters
type Config struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewConfig creates a new Config instance with the provided key-value pairs
func NewConfig(values map[string]string) *Config {
	config := &Config{
		values: make(map[string]string),
	}

	maps.Copy(config.values, values)

	return config
}

// NewConfigFromEnv creates a new Config instance by loading environment variables
// from the specified .env files (similar to LoadEnv)
func NewConfigFromEnv(files ...string) *Config {
	envMap := LoadEnv(files...)
	return NewConfig(envMap)
}

// Get retrieves a configuration value by key
// Returns empty string if key doesn't exist
func (c *Config) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// GetWithDefault retrieves a configuration value by key with a fallback default
func (c *Config) GetWithDefault(key, defaultValue string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if value, exists := c.values[key]; exists && value != "" {
		return value
	}
	return defaultValue
}

// GetBool retrieves a configuration value as a boolean
// Returns false if key doesn't exist or cannot be parsed as boolean
func (c *Config) GetBool(key string) bool {
	value := c.Get(key)
	if value == "" {
		return false
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		// Handle common boolean representations
		switch strings.ToLower(value) {
		case "1", "yes", "on", "enabled":
			return true
		case "0", "no", "off", "disabled":
			return false
		default:
			return false
		}
	}
	return parsed
}

// GetBoolWithDefault retrieves a configuration value as a boolean with a fallback default
// used when the key is unset or empty
func (c *Config) GetBoolWithDefault(key string, defaultValue bool) bool {
	if strings.TrimSpace(c.Get(key)) == "" {
		return defaultValue
	}
	return c.GetBool(key)
}

// GetIntWithDefault retrieves a configuration value as an integer with a fallback default
// used when the key is unset, empty or not a number
func (c *Config) GetIntWithDefault(key string, defaultValue int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(c.Get(key)))
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDurationWithDefault retrieves a configuration value as a duration ("90s", "2h")
// Bare integers are read as seconds. Missing or invalid values return the default
func (c *Config) GetDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(c.Get(key))
	if value == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetList retrieves a comma separated configuration value as a trimmed list
// Empty entries are dropped. Returns the default when the key is unset or empty
func (c *Config) GetList(key string, defaultValue []string) []string {
	value := c.Get(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Set modifies a configuration value
func (c *Config) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}
