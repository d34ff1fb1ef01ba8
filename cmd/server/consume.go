package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/sonic-seats/internal/queue"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Consume purchase and comment events into log files",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := &queue.Consumer{URL: cfg.AMQPURL, LogDir: cfg.LogDir, Log: logger}
		logger.Info("event consumer starting", zap.String("log_dir", cfg.LogDir))
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
