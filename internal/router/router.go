package router // package router wires handlers and middleware onto Echo

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/sonic-seats/internal/config"
	"github.com/iliyamo/sonic-seats/internal/handler"
	"github.com/iliyamo/sonic-seats/internal/middleware"
)

// Deps is everything RegisterRoutes needs.  RDB may be nil, in which case
// caching and rate limiting are off.
type Deps struct {
	Catalog   *handler.CatalogHandler
	Contact   *handler.ContactHandler
	Purchase  *handler.PurchaseHandler
	RDB       *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	PublicDir string
	Log       *zap.Logger
	Debug     bool
}

// New builds an Echo instance with the error handler and global
// middleware installed and every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log, d.Debug)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  []string{"*"},
		ExposeHeaders: []string{handler.ReceiptHeader, echo.HeaderXRequestID},
	}))

	RegisterRoutes(e, d)
	return e
}

// RegisterRoutes maps the storefront API.  Reads are cached per source
// document; writes are rate limited and invalidate what they change.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	cached := func(doc string) echo.MiddlewareFunc { return middleware.NewRedisCache(d.Cache, d.RDB, doc) }
	e.GET("/concert/:concertId", d.Catalog.GetConcert, cached(handler.DocConcerts))
	e.GET("/concerts", d.Catalog.ListConcerts, cached(handler.DocConcerts))
	e.GET("/faq", d.Catalog.GetFAQ, cached(handler.DocFAQ))
	e.GET("/comments", d.Catalog.GetComments, cached(handler.DocComments))
	e.GET("/cart", d.Catalog.GetCart, cached(handler.DocCart))

	limited := middleware.NewTokenBucket(d.RateLimit, d.RDB, d.Log)
	e.POST("/contact", d.Contact.Submit, limited)
	e.POST("/purchase", d.Purchase.Purchase, limited)
	e.GET("/receipt", d.Purchase.Receipt)

	if d.PublicDir != "" {
		e.Use(echomw.StaticWithConfig(echomw.StaticConfig{Root: d.PublicDir, Index: "index.html"}))
	}
}
