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

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	_ "parkorder/docs"
	"parkorder/pkg/api"
	"parkorder/pkg/checkout"
	"parkorder/pkg/config"
	"parkorder/pkg/logger"
	"parkorder/pkg/menu"
	"parkorder/pkg/order"
	"parkorder/pkg/order/events"
	"parkorder/pkg/order/memory"
	pg "parkorder/pkg/order/postgres"
	"parkorder/pkg/otel"
	"parkorder/pkg/session"
)

const serviceName = "parkorder"

// @title Park Order API
// @version 1.0
// @description Menu, cart and table orders for the park restaurant and bar
// @host localhost:8443
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in cookie
// @name session_id
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Stderr, logger.LevelError, serviceName, nil).Error(ctx, "load config", "error", err)
		return err
	}

	log := logger.New(os.Stdout, cfg.LogLevel, serviceName, otel.GetTraceID)
	defer log.Sync()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{
		ServiceName: serviceName,
		Host:        cfg.OTelHost,
		Probability: cfg.TraceProbability,
	})
	if err != nil {
		log.Error(ctx, "init tracing", "error", err)
		return err
	}
	defer shutdown(context.Background())

	repo, closeRepo, err := openOrders(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "open order store", "error", err)
		return err
	}
	defer closeRepo()

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		log.Error(ctx, "open session store", "error", err)
		return err
	}
	defer closeSessions()

	svc := order.NewService(repo)
	registry := session.NewRegistry(svc,
		checkout.WithSubmitTimeout(cfg.SubmitTimeout),
		checkout.WithGracePeriod(cfg.GracePeriod),
		checkout.WithLogger(log),
	)

	srv := api.New(api.Deps{
		Menu:       menu.Default(),
		Orders:     svc,
		Sessions:   sessions,
		Registry:   registry,
		Log:        log,
		Tracer:     tp.Tracer(serviceName),
		SessionTTL: cfg.SessionTTL,
		Admins:     cfg.Admins,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer registry.Close()

	go registry.Run(sigCtx, sessions, cfg.SessionSweep, log)

	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.Addr, "tls", cfg.TLS())
		if cfg.TLS() {
			errc <- httpSrv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
			return
		}
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server closed", "error", err)
			return err
		}
	case <-sigCtx.Done():
		log.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "shutdown", "error", err)
			return err
		}
	}
	return nil
}

// openOrders picks PostgreSQL when DATABASE_URL is set and memory otherwise,
// and publishes changes to NATS when NATS_URL is set.
func openOrders(ctx context.Context, cfg config.Config, log *logger.Logger) (order.Repository, func(), error) {
	var (
		repo    order.Repository
		closers []func()
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		store := pg.New(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		repo = store
		closers = append(closers, func() { db.Close() })
		log.Info(ctx, "orders stored in postgres")
	} else {
		repo = memory.New()
		log.Warn(ctx, "DATABASE_URL not set, orders kept in memory")
	}

	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL, serviceName)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		repo = events.New(repo, nc, cfg.NATSSubject, log)
		closers = append(closers, func() { nc.Drain() })
		log.Info(ctx, "publishing order events", "subject", cfg.NATSSubject)
	}

	return repo, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}

func openSessions(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	return session.NewRedisStore(client, cfg.SessionTTL), func() { client.Close() }, nil
}
