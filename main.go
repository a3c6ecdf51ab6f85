package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emiliano-diaz/commerce-api/api"
	"github.com/emiliano-diaz/commerce-api/internal/backup"
	"github.com/emiliano-diaz/commerce-api/internal/commerce"
	"github.com/emiliano-diaz/commerce-api/internal/config"
	"github.com/emiliano-diaz/commerce-api/internal/storage/mongo"
	"github.com/emiliano-diaz/commerce-api/internal/storage/redis"
)

// store is what every Aggregate Store driver provides.
type store interface {
	commerce.Storage
	backup.Storage
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type (
	commerceMemory = commerce.LocalStorage
	backupMemory   = backup.LocalStorage
)

type memoryStore struct {
	*commerceMemory
	*backupMemory
}

func (memoryStore) Migrate(context.Context) error { return nil }
func (memoryStore) Ping(context.Context) error    { return nil }
func (memoryStore) Close(context.Context) error   { return nil }

func connectStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return mongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	case config.DriverRedis:
		return redis.New(ctx, redis.Options{
			RedisURL:  cfg.RedisURL,
			Namespace: cfg.RedisNamespace,
			Logger:    logger,
		})
	default:
		return memoryStore{commerce.NewLocalStorage(), backup.NewLocalStorage()}, nil
	}
}

// openStore connects the configured driver and prepares its schema.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store, error) {
	s, err := connectStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close(ctx)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Errorf("error building logger: %v", err))
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("error loading configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("error opening store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	api.InitRoutes(r, api.Dependencies{
		Commerce: s,
		Backup:   s,
		Ping:     s.Ping,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.HTTPAddr), zap.String("driver", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("error trying to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down server", zap.Error(err))
	}
	if err := s.Close(shutdownCtx); err != nil {
		logger.Error("error closing store", zap.Error(err))
	}
}
