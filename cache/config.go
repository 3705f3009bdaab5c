package cache

import "time"

// DefaultTTL is the time-to-live applied when no explicit TTL is configured.
// Five minutes matches how long directory and detail data stay trustworthy
// between navigations.
const DefaultTTL = 5 * time.Minute

// Config exposes store configuration options for consumers of the cache package.
type Config struct {
	// TTL is the time-to-live for cached entries. After this duration an
	// entry reads as absent. Must be greater than 0.
	TTL time.Duration

	// Clock overrides the time source used for write stamps and expiry
	// checks. Nil means time.Now. Tests inject a fake clock here.
	Clock func() time.Time
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{TTL: DefaultTTL}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
