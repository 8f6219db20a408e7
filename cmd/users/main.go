package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shelfwise/library-system/internal/api"
	"github.com/shelfwise/library-system/internal/infrastructure/audit"
	"github.com/shelfwise/library-system/internal/infrastructure/config"
	"github.com/shelfwise/library-system/internal/infrastructure/db/postgres"
	redisinfra "github.com/shelfwise/library-system/internal/infrastructure/db/redis"
	"github.com/shelfwise/library-system/pkg/logger"
	"github.com/shelfwise/library-system/pkg/token"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The signing secret is required; refuse to start without it.
		logger.Init(logger.Options{})
		fallback := logger.Get()
		fallback.Fatal().Err(err).Msg("configuration invalid")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log = log.With().Str("service", "users").Logger()

	pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.Postgres.URL); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	rdb, err := redisinfra.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	auditTrail := audit.NewDispatcher(0, postgres.NewAuditRepository(pool), log)
	auditTrail.Start(ctx)

	codec := token.NewCodec(cfg.SecretKey)
	e := api.NewUsersRouter(pool, rdb, codec, auditTrail, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("users service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("users service stopped")
}
