package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/sonic-seats/internal/config"
)

// captureWriter tees the response body into buf, up to limit bytes, while
// forwarding everything to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		cw.buf.Write(b[:min(int64(len(b)), remain)])
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// docPrefix is the key namespace of every response derived from doc.
func docPrefix(cfg config.CacheConfig, doc string) string {
	return cfg.Prefix + ":" + doc + ":"
}

// cacheKey is the document namespace followed by a digest of the method,
// route and raw query.
func cacheKey(cfg config.CacheConfig, doc string, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(r.Method + " " + r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s%x", docPrefix(cfg, doc), sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// replayHeaders are the handler-owned headers stored with a response.
// Everything else on the response (CORS, Vary, request id) is written by
// outer middleware on every request and must not be replayed.
var replayHeaders = []string{echo.HeaderContentType, echo.HeaderContentEncoding}

// genKey holds the document's invalidation generation.  It sits outside
// docPrefix so Invalidate's SCAN never deletes it.
func genKey(cfg config.CacheConfig, doc string) string {
	return cfg.Prefix + ":gen:" + doc
}

// storeScript writes KEYS[1] only while the generation at KEYS[2] still
// equals the one observed before the handler ran.  A write that
// invalidated doc in between makes the response stale, so it is dropped.
var storeScript = redis.NewScript(`
	local gen = redis.call('GET', KEYS[2]) or '0'
	if gen ~= ARGV[1] then
		return 0
	end
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
	return 1
`)

func generation(ctx context.Context, rdb *redis.Client, key string) (string, error) {
	gen, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

// NewRedisCache caches successful responses of routes that read doc.
// Status, content headers and body are replayed on a hit.  With caching
// disabled or no Redis client the middleware is a passthrough.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, doc string) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Cacheable(c.Request().Method) {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg, doc, c)
			h := c.Response().Header()

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for _, k := range replayHeaders {
						if v := hdr.Get(k); v != "" {
							h.Set(k, v)
						}
					}
					h.Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			gen, genErr := generation(ctx, rdb, genKey(cfg, doc))

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			h.Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			// Truncated bodies are not worth replaying.
			if genErr != nil || cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			stored := make(http.Header, len(replayHeaders))
			for _, k := range replayHeaders {
				if v := h.Get(k); v != "" {
					stored.Set(k, v)
				}
			}
			if payload, err := encodePayload(cw.status, stored, cw.buf.Bytes()); err == nil {
				_ = storeScript.Run(context.WithoutCancel(ctx), rdb,
					[]string{key, genKey(cfg, doc)}, gen, payload, cfg.TTL.Milliseconds()).Err()
			}
			return nil
		}
	}
}

// Invalidate drops every cached response derived from docs.  The
// generation is bumped first, so a response computed before the write
// can no longer be stored after the keys are deleted.  A nil client is a
// no-op.
func Invalidate(ctx context.Context, rdb *redis.Client, cfg config.CacheConfig, docs ...string) error {
	if rdb == nil {
		return nil
	}
	for _, doc := range docs {
		if err := rdb.Incr(ctx, genKey(cfg, doc)).Err(); err != nil {
			return fmt.Errorf("bump %s: %w", doc, err)
		}
		iter := rdb.Scan(ctx, 0, docPrefix(cfg, doc)+"*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s: %w", doc, err)
		}
		if len(keys) == 0 {
			continue
		}
		if err := rdb.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("del %s: %w", doc, err)
		}
	}
	return nil
}

// CacheInvalidator binds Invalidate to a client and config.
type CacheInvalidator struct {
	RDB *redis.Client
	Cfg config.CacheConfig
}

// Invalidate drops every cached response derived from docs.
func (i CacheInvalidator) Invalidate(ctx context.Context, docs ...string) error {
	return Invalidate(ctx, i.RDB, i.Cfg, docs...)
}
