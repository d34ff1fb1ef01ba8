package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/sonic-seats/internal/config"
	"github.com/iliyamo/sonic-seats/internal/handler"
	"github.com/iliyamo/sonic-seats/internal/middleware"
	"github.com/iliyamo/sonic-seats/internal/repository"
	"github.com/iliyamo/sonic-seats/internal/router"
	"github.com/iliyamo/sonic-seats/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := openStore()
	if err := checkDocuments(io.Discard, s); err != nil {
		logger.Warn("data directory has problems; affected endpoints will fail", zap.String("dir", s.Dir()), zap.Error(err))
	}

	rdb := config.NewRedisClient(ctx, cfg.Redis)
	if rdb == nil {
		logger.Warn("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = &service.AMQPPublisher{URL: cfg.AMQPURL, Log: logger}
	}
	inv := middleware.CacheInvalidator{RDB: rdb, Cfg: cfg.Cache}

	e := router.New(router.Deps{
		Catalog: &handler.CatalogHandler{
			Concerts: repository.NewConcertRepo(s),
			Docs:     repository.NewDocumentRepo(s),
		},
		Contact: &handler.ContactHandler{
			Feedback: service.NewFeedbackService(s, events, logger),
			Cache:    inv,
			Log:      logger,
		},
		Purchase: &handler.PurchaseHandler{
			Purchases:     service.NewPurchaseService(s, events, logger),
			Cache:         inv,
			Log:           logger,
			ReceiptSecret: cfg.ReceiptSecret,
			ReceiptTTL:    cfg.ReceiptTTL,
		},
		RDB:       rdb,
		Cache:     cfg.Cache,
		RateLimit: cfg.RateLimit,
		PublicDir: cfg.PublicDir,
		Log:       logger,
		Debug:     cfg.Debug,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env), zap.String("data_dir", s.Dir()))
		errCh <- e.Start(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
