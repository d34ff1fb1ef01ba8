package config

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig locates the Redis server backing the cache and rate limiter.
// REDIS_HOST and REDIS_PORT take precedence over REDIS_ADDR.
type RedisConfig struct {
	Addr     string `yaml:"addr"`     // REDIS_ADDR
	Password string `yaml:"password"` // REDIS_PASSWORD
	DB       int    `yaml:"db"`       // REDIS_DB
	TLS      bool   `yaml:"tls"`      // REDIS_TLS
}

func defaultRedisConfig() RedisConfig {
	return RedisConfig{Addr: "localhost:6379"}
}

func (r *RedisConfig) overlayEnv() {
	r.Addr = envStr("REDIS_ADDR", r.Addr)
	if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
		r.Addr = host + ":" + port
	}
	r.Password = envStr("REDIS_PASSWORD", r.Password)
	r.DB = envInt("REDIS_DB", r.DB)
	r.TLS = envBool("REDIS_TLS", r.TLS)
}

func (r *RedisConfig) validate() error {
	if r.Addr == "" {
		return errors.New("config: REDIS_ADDR is required")
	}
	if r.DB < 0 {
		return errors.New("config: REDIS_DB must not be negative")
	}
	return nil
}

// NewRedisClient connects and pings with a short timeout.  It returns nil
// when Redis is unreachable; callers then run without caching or rate
// limiting.
func NewRedisClient(ctx context.Context, cfg RedisConfig) *redis.Client {
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
