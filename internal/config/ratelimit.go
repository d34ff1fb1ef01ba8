package config

import (
	"errors"
	"time"
)

// RateLimitConfig controls the token bucket applied to the write
// endpoints.  KeyStrategy is "ip" or "ip_route".
type RateLimitConfig struct {
	Enabled        bool          `yaml:"enabled"`         // RATE_LIMIT_ENABLED
	Capacity       int           `yaml:"capacity"`        // RATE_LIMIT_CAPACITY
	RefillTokens   int           `yaml:"refill_tokens"`   // RATE_LIMIT_REFILL_TOKENS
	RefillInterval time.Duration `yaml:"refill_interval"` // RATE_LIMIT_REFILL_INTERVAL
	TTL            time.Duration `yaml:"ttl"`             // RATE_LIMIT_TTL
	KeyStrategy    string        `yaml:"key_strategy"`    // RATE_LIMIT_KEY_STRATEGY
	Prefix         string        `yaml:"prefix"`          // RATE_LIMIT_PREFIX
	Debug          bool          `yaml:"debug"`           // RATE_LIMIT_DEBUG
}

func defaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        true,
		Capacity:       20,
		RefillTokens:   1,
		RefillInterval: 3 * time.Second,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "sonicseats:rl",
	}
}

func (r *RateLimitConfig) overlayEnv() {
	r.Enabled = envBool("RATE_LIMIT_ENABLED", r.Enabled)
	r.Capacity = envInt("RATE_LIMIT_CAPACITY", r.Capacity)
	r.RefillTokens = envInt("RATE_LIMIT_REFILL_TOKENS", r.RefillTokens)
	r.RefillInterval = envDur("RATE_LIMIT_REFILL_INTERVAL", r.RefillInterval)
	r.TTL = envDur("RATE_LIMIT_TTL", r.TTL)
	r.KeyStrategy = envStr("RATE_LIMIT_KEY_STRATEGY", r.KeyStrategy)
	r.Prefix = envStr("RATE_LIMIT_PREFIX", r.Prefix)
	r.Debug = envBool("RATE_LIMIT_DEBUG", r.Debug)
	if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
		r.RefillTokens = 1
		r.RefillInterval = every
	}
}

// normalize clamps the bucket to usable values.
func (r *RateLimitConfig) normalize() {
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	if minTTL := 5 * r.RefillInterval; r.TTL < minTTL {
		r.TTL = minTTL
	}
	if r.KeyStrategy != "ip" {
		r.KeyStrategy = "ip_route"
	}
}

func (r *RateLimitConfig) validate() error {
	if r.Enabled && r.Prefix == "" {
		return errors.New("config: RATE_LIMIT_PREFIX is required")
	}
	return nil
}
