package config

import (
	"errors"
	"strings"
	"time"
)

// CacheConfig defines settings for the catalog response cache.  When
// Enabled is false or no Redis client is available, responses are served
// straight from the handlers.  TTL bounds staleness for anything a write
// fails to invalidate.  Prefix namespaces keys so one Redis can serve
// several deployments.
type CacheConfig struct {
	Enabled      bool          `yaml:"enabled"`        // CACHE_ENABLED
	Methods      []string      `yaml:"methods"`        // CACHE_METHODS, comma separated
	TTL          time.Duration `yaml:"ttl"`            // CACHE_TTL
	Prefix       string        `yaml:"prefix"`         // CACHE_PREFIX
	MaxBodyBytes int           `yaml:"max_body_bytes"` // CACHE_MAX_BODY_BYTES
}

func defaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      true,
		Methods:      []string{"GET"},
		TTL:          30 * time.Second,
		Prefix:       "sonicseats:cache",
		MaxBodyBytes: 1 << 20,
	}
}

func (c *CacheConfig) overlayEnv() {
	c.Enabled = envBool("CACHE_ENABLED", c.Enabled)
	if v := envStr("CACHE_METHODS", ""); v != "" {
		c.Methods = strings.Split(v, ",")
	}
	c.TTL = envDur("CACHE_TTL", c.TTL)
	c.Prefix = envStr("CACHE_PREFIX", c.Prefix)
	c.MaxBodyBytes = envInt("CACHE_MAX_BODY_BYTES", c.MaxBodyBytes)
}

func (c *CacheConfig) normalize() {
	methods := make([]string, 0, len(c.Methods))
	for _, m := range c.Methods {
		if m = strings.TrimSpace(strings.ToUpper(m)); m != "" {
			methods = append(methods, m)
		}
	}
	c.Methods = methods
}

func (c *CacheConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.TTL <= 0 {
		return errors.New("config: CACHE_TTL must be positive")
	}
	if c.Prefix == "" {
		return errors.New("config: CACHE_PREFIX is required")
	}
	return nil
}

// Cacheable reports whether responses to method may be cached.
func (c *CacheConfig) Cacheable(method string) bool {
	for _, m := range c.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}
