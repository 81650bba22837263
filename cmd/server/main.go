package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"humanproof/internal/audit"
	"humanproof/internal/jwtauth"
	"humanproof/internal/ledger/handler"
	ledgermetrics "humanproof/internal/ledger/metrics"
	"humanproof/internal/ledger/service"
	"humanproof/internal/ledger/store"
	"humanproof/internal/platform/config"
	"humanproof/internal/platform/httpserver"
	"humanproof/internal/platform/logger"
	"humanproof/internal/platform/metrics"
	platformredis "humanproof/internal/platform/redis"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recordStore, health, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	publisher := audit.NewPublisher(audit.NewInMemoryStore(), log, cfg.AuditBuffer)

	g, ctx := errgroup.WithContext(ctx)

	if len(cfg.KafkaBrokers) > 0 {
		sink, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer sink.Close()

		worker := audit.NewWorker(sink, publisher.Inbox(), log)
		g.Go(func() error {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		log.Info("audit events forwarded to kafka", "topic", cfg.KafkaTopic)
	}

	svc := service.New(recordStore,
		service.WithAudit(publisher),
		service.WithMetrics(ledgermetrics.New()),
	)

	manager := jwtauth.NewManager(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)

	router := chi.NewRouter()
	h := handler.New(svc, log, metrics.New(), manager)
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", healthHandler(health))

	srv := httpserver.New(cfg.Addr, router)

	g.Go(func() error {
		log.Info("starting humanproof", "addr", cfg.Addr, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildStore selects the record store backend from configuration and
// returns it with a health probe and a cleanup function.
func buildStore(ctx context.Context, cfg config.Server) (store.Store, func(context.Context) error, func(), error) {
	noop := func() {}
	healthy := func(context.Context) error { return nil }

	switch cfg.StoreBackend {
	case "memory":
		return store.NewMemory(), healthy, noop, nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		pg := store.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return pg, db.PingContext, func() { db.Close() }, nil

	case "redis":
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if client == nil {
			return nil, nil, nil, fmt.Errorf("redis store selected but HUMANPROOF_REDIS_URL is empty")
		}
		return store.NewRedis(client.Client), client.Health, func() { client.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func healthHandler(probe func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := probe(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
