package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v4/stdlib"
	"go.uber.org/zap"

	"github.com/yashasviy/split-payments-api/api"
	"github.com/yashasviy/split-payments-api/config"
	"github.com/yashasviy/split-payments-api/db"
	"github.com/yashasviy/split-payments-api/logging"
	"github.com/yashasviy/split-payments-api/session"
	"github.com/yashasviy/split-payments-api/split"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		// No logger yet.
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		_, _ = os.Stderr.WriteString("logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Redis: idempotency cache and, optionally, the session store
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	}

	// 2. Postgres: stored funding accounts
	var accounts api.AccountLoader
	if cfg.DatabaseURL != "" {
		conn, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := conn.PingContext(ctx); err != nil {
			return err
		}
		if err := db.Initialize(ctx, conn); err != nil {
			return err
		}
		accounts = db.NewAccountSource(conn)
		logger.Info("postgres connected")
	}

	// 3. Sessions
	var store session.Store
	switch cfg.SessionStore {
	case config.StoreRedis:
		store = session.NewRedisStore(rdb)
	default:
		mem := session.NewMemoryStore()
		sweeper, err := session.StartSweeper(mem, cfg.SweepSchedule, logger)
		if err != nil {
			return err
		}
		defer sweeper.Stop()
		store = mem
	}

	rule, err := split.RoutingRuleByName(cfg.RoutingRule)
	if err != nil {
		return err
	}
	sessions := session.NewManager(store, split.NewReducer(split.WithRoutingRule(rule)), cfg.SessionTTL, logger)

	// 4. Server
	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.Deps{
			Sessions: sessions,
			Accounts: accounts,
			Redis:    rdb,
			Logger:   logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("session_store", cfg.SessionStore),
			zap.String("routing_rule", cfg.RoutingRule),
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
