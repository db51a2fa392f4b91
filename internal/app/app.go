package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fx-transactions/docs"
	"fx-transactions/internal/api/handlers"
	"fx-transactions/internal/api/middlew"
	"fx-transactions/internal/config"
	"fx-transactions/internal/db"
	"fx-transactions/internal/kafka"
	"fx-transactions/internal/server"
	"fx-transactions/internal/service"
	"fx-transactions/internal/storage"
	"fx-transactions/internal/storage/memory"
	"fx-transactions/internal/storage/mongodb"
	"fx-transactions/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type App struct {
	log           *slog.Logger
	server        *server.Server
	repo          storage.TransactionRepository
	logFile       *os.File
	cfg           *config.Config
	accessService service.Access
	kafkaProducer kafka.Producer
}

func NewApp() (*App, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerWithFile, err := logger.NewLoggerWithFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	log := loggerWithFile.Logger
	log.Info("config loaded",
		slog.String("port", cfg.HTTPPort),
		slog.String("storage", cfg.StorageDriver))

	repo, err := newRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	var kafkaProducer kafka.Producer
	if cfg.Kafka.Enabled {
		log.Info("initialising kafka producer", slog.Any("brokers", cfg.Kafka.Brokers))
		kafkaProducer, err = kafka.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return nil, fmt.Errorf("failed to init kafka: %w", err)
		}
	} else {
		log.Info("kafka disabled in config")
		kafkaProducer = kafka.NewNoOpProducer(log)
	}

	srv := server.NewServer(cfg.HTTPPort)
	srv.Router.Use(middleware.RequestID)
	srv.Router.Use(middlew.WithLogger(log))
	srv.Router.Use(middleware.RealIP)
	srv.Router.Use(middlew.Recover)
	srv.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	srv.Router.NotFound(handlers.NotFound)
	srv.Router.MethodNotAllowed(handlers.NotFound)
	srv.Router.Get("/health", handlers.Health)
	docs.SwaggerInfo.Host = cfg.SwaggerHost
	srv.RegisterSwagger(cfg.SwaggerHost)
	log.Info("server initialised", slog.String("port", cfg.HTTPPort))

	return &App{
		log:     log,
		server:  srv,
		repo:    repo,
		logFile: loggerWithFile.LogFile,
		cfg:     cfg,
		accessService: service.NewAccessService(
			cfg.Auth.APIKey,
			cfg.Auth.JWTSecret,
			cfg.Auth.Issuer,
			cfg.Auth.TokenTTL,
		),
		kafkaProducer: kafkaProducer,
	}, nil
}

func newRepository(cfg *config.Config, log *slog.Logger) (storage.TransactionRepository, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.NewTransactionStore(cfg.ListLimit), nil
	}

	if cfg.MongoDB.MigrationsEnabled {
		log.Info("running database migrations", slog.String("path", cfg.MongoDB.MigrationsPath))
		if err := db.RunMigrations(cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.MigrationsPath); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations applied")
	}

	client, err := db.NewClient(context.Background(), db.ClientConfig{
		URI:           cfg.MongoDB.URI,
		Timeout:       cfg.MongoDB.Timeout,
		RetryAttempts: cfg.MongoDB.RetryAttempts,
		RetryDelay:    cfg.MongoDB.RetryDelay,
		AppName:       "fx-transactions",
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	return mongodb.NewTransactionRepository(client, cfg.MongoDB.Database, cfg.MongoDB.Collection, cfg.ListLimit), nil
}

func (a *App) BuildTransactionLayer() error {
	if a.repo == nil {
		err := errors.New("repository not initialised")
		a.log.Error(err.Error())
		return err
	}
	if a.kafkaProducer == nil {
		err := errors.New("kafkaProducer not initialised")
		a.log.Error(err.Error())
		return err
	}

	transactionService := service.NewTransactionService(
		a.repo,
		a.kafkaProducer,
		service.NewNormalizer(time.Now),
		a.log,
	)
	transactionHandler := handlers.NewTransactionHandler(transactionService)

	var rateLimit func(http.Handler) http.Handler
	if a.cfg.RateLimit.Enabled {
		var err error
		rateLimit, err = middlew.RateLimit(a.cfg.RateLimit.Rate)
		if err != nil {
			a.log.Error("failed to build rate limiter", slog.String("error", err.Error()))
			return err
		}
	}

	a.server.Router.Group(func(r chi.Router) {
		if rateLimit != nil {
			r.Use(rateLimit)
		}
		r.Use(middlew.RequireAuth(a.accessService))
		transactionHandler.Register(r)
	})

	a.log.Info("transaction layer built and routes registered")
	return nil
}

func (a *App) Run() error {
	a.log.Info("server starting")

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdownChan:
		a.log.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	a.log.Info("application stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("failed to stop http server", slog.String("error", err.Error()))
	}

	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			a.log.Error("failed to close kafka producer", slog.String("error", err.Error()))
		}
	}

	a.log.Info("closing storage")
	if err := a.repo.Close(); err != nil {
		a.log.Error("failed to close storage", slog.String("error", err.Error()))
	}

	a.log.Info("application stopped")
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			a.log.Error("failed to close log file", slog.String("error", err.Error()))
		}
	}

	return nil
}
