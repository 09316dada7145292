package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/divya8341883853/clothstore-backend/internal/notifications"
	"github.com/divya8341883853/clothstore-backend/pkg/config"
	"github.com/divya8341883853/clothstore-backend/pkg/db"
	"github.com/divya8341883853/clothstore-backend/pkg/logger"
	"github.com/divya8341883853/clothstore-backend/pkg/mailer"
	"github.com/divya8341883853/clothstore-backend/pkg/outbox"
)

// The worker drains queued outbox events and delivers order confirmation
// email. Failed deliveries are retried on the next poll until the attempt
// ceiling.
func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	sender, err := mailer.New(cfg.Sendgrid)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}

	handler, err := notifications.NewHandler(sender, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications handler", err)
		os.Exit(1)
	}

	dispatcher := outbox.NewDispatcher(outbox.NewRepository(dbClient.DB()), handler, cfg.Outbox, logg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logg.Info(ctx, "starting outbox worker")
	if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
		logg.Error(ctx, "outbox worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "outbox worker stopped")
}
