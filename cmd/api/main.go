package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/e2recycle/platform/internal/api"
	"github.com/e2recycle/platform/internal/infrastructure/config"
	mongorepo "github.com/e2recycle/platform/internal/infrastructure/db/mongo"
	redisstore "github.com/e2recycle/platform/internal/infrastructure/db/redis"
	"github.com/e2recycle/platform/internal/infrastructure/queue"
	"github.com/e2recycle/platform/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	if err := ensureIndexes(ctx, client, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	auditRepo := mongorepo.NewAuditRepository(db)
	audit := queue.NewAuditDispatcher(cfg.AuditWorkers, auditRepo, log)
	audit.Start(ctx)

	e := api.NewRouter(cfg, client, db, rdb, audit, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// ensureIndexes creates the collection indexes at startup so unique
// constraints hold from the first write.
func ensureIndexes(ctx context.Context, client *mongodriver.Client, db *mongodriver.Database) error {
	if err := mongorepo.NewRequestRepository(client, db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongorepo.NewTransactionRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongorepo.NewAuthRepository(db).EnsureIndexes(ctx)
}
