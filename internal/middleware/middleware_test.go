package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/sonic-seats/internal/config"
)

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCacheKeyNamespacedByDocument(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "sonicseats:cache"}

	c1, _ := newContext(http.MethodGet, "/concerts?artist=Olivia%20Rodrigo")
	c2, _ := newContext(http.MethodGet, "/concerts?artist=Tyler")
	c3, _ := newContext(http.MethodGet, "/concerts?artist=Olivia%20Rodrigo")

	k1 := cacheKey(cfg, "concerts", c1)
	assert.True(t, strings.HasPrefix(k1, "sonicseats:cache:concerts:"))
	assert.NotEqual(t, k1, cacheKey(cfg, "concerts", c2))
	assert.Equal(t, k1, cacheKey(cfg, "concerts", c3))
	assert.NotEqual(t, k1, cacheKey(cfg, "faq", c3))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[1,2]`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `[1,2]`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("defg"))

	assert.Equal(t, "abcd", cw.buf.String())
	assert.EqualValues(t, 7, cw.size)
	assert.Equal(t, "abcdefg", rec.Body.String())
}

func TestMiddlewarePassthroughWithoutRedis(t *testing.T) {
	called := 0
	h := func(c echo.Context) error {
		called++
		return c.String(http.StatusOK, "ok")
	}

	cache := NewRedisCache(config.CacheConfig{Enabled: true, Methods: []string{"GET"}}, nil, "faq")
	limit := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, zap.NewNop())

	c, rec := newContext(http.MethodGet, "/faq")
	require.NoError(t, cache(limit(h))(c))
	assert.Equal(t, 1, called)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, Invalidate(context.Background(), nil, config.CacheConfig{}, "faq"))
}

func TestBuildRateKey(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/purchase")
	c.SetPath("/purchase")
	c.Request().Header.Set(echo.HeaderXRealIP, "10.0.0.7")

	assert.Equal(t, "rl:ip:10.0.0.7:route:POST /purchase",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}, c))
	assert.Equal(t, "rl:ip:10.0.0.7",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, 2, retryAfterSeconds(1500))
	assert.Equal(t, 0, retryAfterSeconds(-10))
}

func TestRequestLoggerAssignsID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mw := RequestLogger(zap.New(core))

	c, rec := newContext(http.MethodGet, "/faq")
	require.NoError(t, mw(func(c echo.Context) error { return c.NoContent(http.StatusTeapot) })(c))

	id := rec.Header().Get(echo.HeaderXRequestID)
	assert.NotEmpty(t, id)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, id, fields["request_id"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}

func TestRequestLoggerKeepsClientID(t *testing.T) {
	mw := RequestLogger(zap.NewNop())
	c, rec := newContext(http.MethodGet, "/faq")
	c.Request().Header.Set(echo.HeaderXRequestID, "abc-123")
	require.NoError(t, mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c))
	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
}
