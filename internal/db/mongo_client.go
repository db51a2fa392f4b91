package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ClientConfig struct {
	URI           string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	AppName       string
}

// NewClient connects to MongoDB and pings the primary, retrying with
// exponential backoff until RetryAttempts is exhausted.
func NewClient(ctx context.Context, cfg ClientConfig, log *slog.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}

	var err error
	for i := 0; i < cfg.RetryAttempts; i++ {
		var client *mongo.Client
		client, err = mongo.Connect(ctx, opts)
		if err != nil {
			log.Warn("failed to create mongo client",
				slog.Int("attempt", i+1),
				slog.Int("max_attempts", cfg.RetryAttempts),
				slog.String("error", err.Error()))
			time.Sleep(cfg.RetryDelay * time.Duration(1<<i))
			continue
		}

		pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		err = client.Ping(pingCtx, nil)
		cancel()
		if err != nil {
			log.Warn("mongo ping failed",
				slog.Int("attempt", i+1),
				slog.String("error", err.Error()))
			_ = client.Disconnect(ctx)
			time.Sleep(cfg.RetryDelay * time.Duration(1<<i))
			continue
		}

		log.Info("connected to mongodb")
		return client, nil
	}

	return nil, fmt.Errorf("failed to connect to mongodb after %d attempts: %w", cfg.RetryAttempts, err)
}
