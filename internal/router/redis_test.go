package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sonic-seats/internal/config"
	"github.com/iliyamo/sonic-seats/internal/middleware"
	"github.com/iliyamo/sonic-seats/internal/model"
)

// newRedisTestServer wires the cache, the rate limiter and the write-side
// invalidation against an in-memory Redis.
func newRedisTestServer(t *testing.T, rl config.RateLimitConfig) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	d, s, _ := testDeps(t)
	d.RDB = rdb
	d.Cache = config.CacheConfig{
		Enabled:      true,
		Methods:      []string{http.MethodGet},
		TTL:          time.Minute,
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 20,
	}
	d.RateLimit = rl
	inv := middleware.CacheInvalidator{RDB: rdb, Cfg: d.Cache}
	d.Contact.Cache = inv
	d.Purchase.Cache = inv
	return &testServer{e: New(d), store: s}
}

func (ts *testServer) getFrom(target, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(echo.HeaderOrigin, origin)
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func TestCachedResponseKeepsSingleOuterHeaders(t *testing.T) {
	ts := newRedisTestServer(t, config.RateLimitConfig{})

	first := ts.getFrom("/faq", "https://shop.example")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := ts.getFrom("/faq", "https://shop.example")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	assert.Equal(t, []string{"*"}, second.Header().Values(echo.HeaderAccessControlAllowOrigin))
	assert.Len(t, second.Header().Values(echo.HeaderVary), len(first.Header().Values(echo.HeaderVary)))
	assert.Len(t, second.Header().Values(echo.HeaderContentType), 1)
	ids := second.Header().Values(echo.HeaderXRequestID)
	require.Len(t, ids, 1)
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), ids[0])
}

func TestPurchaseInvalidatesCachedConcert(t *testing.T) {
	ts := newRedisTestServer(t, config.RateLimitConfig{})

	rec := ts.get("/concert/0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	rec = ts.get("/concert/0")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, decode[model.Concert](t, rec).Tickets["A"].Seats, "A1")

	rec = ts.postForm("/purchase", url.Values{"concertId": {"0"}, "seats": {`["A1"]`}, "paymentMethod": {"cash"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.get("/concert/0")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, []string{"A2", "A3"}, decode[model.Concert](t, rec).Tickets["A"].Seats)
}

func TestContactInvalidatesCachedComments(t *testing.T) {
	ts := newRedisTestServer(t, config.RateLimitConfig{})

	assert.JSONEq(t, `[]`, ts.get("/comments").Body.String())
	assert.Equal(t, "HIT", ts.get("/comments").Header().Get("X-Cache"))

	rec := ts.postForm("/contact", url.Values{"category": {"general"}, "description": {"Loved it"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.get("/comments")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `[{"category":"general","description":"Loved it"}]`, rec.Body.String())
}

func TestWritesAreRateLimited(t *testing.T) {
	ts := newRedisTestServer(t, config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "test:rl",
	})
	form := url.Values{"category": {"general"}, "description": {"Loved it"}}

	rec := ts.postForm("/contact", form)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.postForm("/contact", form)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, middleware.TooManyRequestsMessage, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	comments, err := ts.store.Comments()
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	// The bucket is per route.
	rec = ts.postForm("/purchase", url.Values{"concertId": {"0"}, "seats": {`["A1"]`}, "paymentMethod": {"cash"}})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
