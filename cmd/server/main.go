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

	authmetrics "github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/metrics"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/service"
	authstore "github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/store"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/token"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/gate"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/orchestrator"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/issuer"
	issuermetrics "github.com/0xronaldo/backend-zkp-lastproyect/internal/issuer/metrics"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/config"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/health"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/httpserver"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/logger"
	platformredis "github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/redis"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/tracer"
	httptransport "github.com/0xronaldo/backend-zkp-lastproyect/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing zkauth",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"issuer_node", cfg.Issuer.BaseURL,
	)

	healthHandler := health.New(cfg.Environment)

	principals, cleanup, err := buildStore(cfg, healthHandler)
	if err != nil {
		log.Error("store initialization failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	issuerClient := issuer.NewClient(cfg.Issuer,
		issuer.WithLogger(log),
		issuer.WithMetrics(issuermetrics.New()),
	)
	resolver := issuer.NewResolver(issuerClient, log)

	stageSink := orchestrator.NewAsyncSink(orchestrator.NewLogSink(log), 64, log)
	defer stageSink.Close()

	pipeline := orchestrator.New(issuerClient, resolver,
		orchestrator.WithLogger(log),
		orchestrator.WithTracer(tracer.NewOTel()),
		orchestrator.WithSettleDelay(cfg.Issuer.SettleDelay),
		orchestrator.WithSink(stageSink),
	)
	credentialGate := gate.New(issuerClient,
		gate.WithLogger(log),
		gate.WithTracer(tracer.NewOTel()),
	)

	tokens := token.NewService(cfg.JWTSigningKey, cfg.TokenTTL)
	auth := service.New(principals, pipeline, credentialGate, tokens,
		service.WithLogger(log),
		service.WithMetrics(authmetrics.New()),
	)

	handler := httptransport.NewHandler(auth, log)
	router := httptransport.NewRouter(handler, healthHandler, log)
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")
	if err := httpserver.Shutdown(srv, shutdownTimeout); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// buildStore picks the principal store backend: PostgreSQL when DATABASE_URL
// is set, Redis when REDIS_URL is set, in-memory otherwise.
func buildStore(cfg config.Server, healthHandler *health.Handler) (authstore.Store, func(), error) {
	switch {
	case cfg.PostgresURL != "":
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		healthHandler.RegisterCheck("postgres", db.Ping)
		return authstore.NewPostgres(db), func() { db.Close() }, nil

	case cfg.RedisURL != "":
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Health(ctx)
		})
		return authstore.NewRedis(client.Client), func() { client.Close() }, nil

	default:
		return authstore.NewMemory(), func() {}, nil
	}
}
