package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	archivememory "github.com/stratosilva/ethiopia-thdf/internal/archive/memory"
	archivepostgres "github.com/stratosilva/ethiopia-thdf/internal/archive/postgres"
	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	"github.com/stratosilva/ethiopia-thdf/internal/declaration/handler"
	sessionmemory "github.com/stratosilva/ethiopia-thdf/internal/declaration/store/memory"
	sessionredis "github.com/stratosilva/ethiopia-thdf/internal/declaration/store/redis"
	"github.com/stratosilva/ethiopia-thdf/internal/dhis2"
	"github.com/stratosilva/ethiopia-thdf/internal/dhis2/tracer"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/config"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/database"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/health"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/kafka"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/kafka/producer"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/logger"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/metrics"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/middleware"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/redis"
	"github.com/stratosilva/ethiopia-thdf/internal/reference"
	"github.com/stratosilva/ethiopia-thdf/pkg/platform/audit"
	"github.com/stratosilva/ethiopia-thdf/pkg/platform/audit/publisher"
	auditkafka "github.com/stratosilva/ethiopia-thdf/pkg/platform/audit/sink/kafka"
	auditmemory "github.com/stratosilva/ethiopia-thdf/pkg/platform/audit/store/memory"
	auditpostgres "github.com/stratosilva/ethiopia-thdf/pkg/platform/audit/store/postgres"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing traveler health declaration service",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"registry_url", cfg.RegistryBaseURL,
	)

	m := metrics.New()
	healthHandler := health.New(cfg.Environment)

	// Optional Redis. Absent, sessions and metadata fall back to memory.
	rdb, err := redis.New(cfg.RedisAddr)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return rdb.Health(ctx)
		})
		log.Info("redis connected", "addr", cfg.RedisAddr)
	}

	// Optional Postgres for the audit trail and the submission archive.
	pool, err := database.New(database.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close() //nolint:errcheck
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
		log.Info("database connected")
	}

	var auditStore audit.Store
	var archiver declaration.Archiver
	if pool != nil {
		auditStore = auditpostgres.New(pool.DB())
		archiver = archivepostgres.New(pool.DB())
	} else {
		auditStore = auditmemory.New()
		archiver = archivememory.New()
	}

	// Optional Kafka fan-out for audit events.
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := producer.New(kafka.DefaultProducerConfig(cfg.KafkaBrokers), log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer prod.Close() //nolint:errcheck
		healthHandler.RegisterCheck("kafka", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if !prod.Healthy(ctx) {
				return errors.New("kafka unreachable")
			}
			return nil
		})
		auditStore = auditkafka.New(auditStore, prod, cfg.AuditTopic)
		log.Info("kafka audit sink enabled", "topic", cfg.AuditTopic)
	}

	auditor := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(256),
		publisher.WithPublisherLogger(log),
	)
	defer auditor.Close()

	registry := dhis2.NewClient(cfg.RegistryBaseURL, cfg.RegistryToken,
		dhis2.WithHTTPClient(dhis2.NewBreakerDoer(&http.Client{Timeout: 15 * time.Second}, log)),
		dhis2.WithLogger(log),
		dhis2.WithMetrics(m),
		dhis2.WithTracer(tracer.NewOTel()),
	)
	healthHandler.RegisterCheck("registry", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_, err := registry.RiskCountries(ctx)
		return err
	})

	refOpts := []reference.ServiceOption{reference.WithLogger(log)}
	if rdb != nil {
		refOpts = append(refOpts, reference.WithCache(rdb.Client, config.MetadataCacheTTL))
	}
	metadata := reference.NewService(registry, refOpts...)

	var sessions declaration.SessionStore
	if rdb != nil {
		sessions = sessionredis.New(rdb.Client, cfg.SessionTTL)
	} else {
		store := sessionmemory.New(cfg.SessionTTL)
		sessions = store
		go func() {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				if n := store.Sweep(); n > 0 {
					log.Info("expired sessions swept", "count", n)
				}
			}
		}()
	}

	service := declaration.NewService(registry, sessions, metadata,
		declaration.WithArchiver(archiver),
		declaration.WithAuditPublisher(auditor),
		declaration.WithMetrics(m),
		declaration.WithLogger(log),
	)

	router := chi.NewRouter()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Timeout(30*time.Second),
	)
	router.Handle("/metrics", promhttp.Handler())
	healthHandler.Register(router)

	api := handler.New(service, metadata, log, m)
	router.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		api.Register(r)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
