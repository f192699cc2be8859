package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketsquare/account-system/internal/api"
	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/identity"
	"github.com/marketsquare/account-system/internal/infrastructure/config"
	mongodb "github.com/marketsquare/account-system/internal/infrastructure/db/mongo"
	redisdb "github.com/marketsquare/account-system/internal/infrastructure/db/redis"
	"github.com/marketsquare/account-system/internal/infrastructure/queue"
	"github.com/marketsquare/account-system/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	conn, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = conn.Close(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(conn.DB)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index bootstrap failed")
	}
	auditRepo := mongodb.NewAuditRepository(conn.DB)
	sessions := redisdb.NewSessionStore(rdb, cfg.SessionTTL)
	throttle := redisdb.NewLoginThrottle(rdb)

	hook := identity.NewHook(domain.DefaultSeedRoles(), userRepo)
	codec := identity.NewTokenCodec(cfg.SessionSecret, cfg.SessionTTL)
	ident := identity.NewService(userRepo, sessions, hook, codec, log)

	// Dev bootstrap accounts; never in production.
	if !cfg.Production() {
		if err := ident.Bootstrap(ctx, identity.DefaultSeedUsers()); err != nil {
			log.Fatal().Err(err).Msg("seed bootstrap failed")
		}
	}

	dispatcher := queue.NewDispatcher(0, auditRepo, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Config:   cfg,
		Identity: ident,
		Users:    userRepo,
		Throttle: throttle,
		Audit:    dispatcher,
		MongoDB:  conn.DB,
		Redis:    rdb,
		Log:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("account system listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
