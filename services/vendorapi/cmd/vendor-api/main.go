package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Skotchmaster/facility_platform/pkg/authclient"
	"github.com/Skotchmaster/facility_platform/pkg/config"
	pkgdb "github.com/Skotchmaster/facility_platform/pkg/db"
	server "github.com/Skotchmaster/facility_platform/pkg/httpserver"
	"github.com/Skotchmaster/facility_platform/pkg/logging"
	"github.com/Skotchmaster/facility_platform/pkg/middleware/metrics"
	"github.com/Skotchmaster/facility_platform/pkg/mykafka"
	"github.com/Skotchmaster/facility_platform/pkg/tracing"

	vendorcfg "github.com/Skotchmaster/facility_platform/services/vendorapi/internal/config"
	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/httpserver"
	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/repo"
	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/service"
)

const shutdownGrace = 10 * time.Second

func main() {
	config.LoadDotenv("services/vendorapi/.env", ".env")
	cfg := vendorcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}

	var secrets pkgdb.SecretGetter
	if cfg.IsProduction() {
		sm, err := pkgdb.NewSecretsManager(ctx, cfg.AWSRegion)
		if err != nil {
			log.Fatalf("secrets manager: %v", err)
		}
		secrets = sm
	}
	cred, err := pkgdb.ResolveCredentials(ctx, cfg.Database, cfg.IsProduction(), secrets)
	if err != nil {
		log.Fatalf("db credentials: %v", err)
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := pkgdb.Open(openCtx, cred, pkgdb.PoolOptions{
		MaxConns:    cfg.Database.MaxConns,
		AcquireWait: cfg.Database.AcquireWait,
		IdleTimeout: cfg.Database.IdleTimeout,
		SSL:         cfg.Database.SSL,
	})
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := pool.CheckTenantIsolation(ctx); err != nil {
		_ = pool.Close()
		log.Fatalf("db role: %v", err)
	}
	logger.Info("db_connected", "host", cred.Host, "database", cred.DBName, "max_conns", cfg.Database.MaxConns)

	maintenance := &service.MaintenanceService{Topic: cfg.MaintenanceTopic}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		topicCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := mykafka.EnsureTopics(topicCtx, cfg.KafkaBrokers[0], cfg.MaintenanceTopic); err != nil {
			logger.Warn("kafka_ensure_topics_failed", "topic", cfg.MaintenanceTopic, "error", err)
		}
		cancel()

		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		maintenance.Events = producer
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	store := &repo.GormRepo{Pool: pool}
	maintenance.Repo = store

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := server.New(server.Options{
		Logger:         logger,
		Metrics:        metrics.New(reg, cfg.ServiceName),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	httpserver.Register(e, &httpserver.Deps{
		Facilities:  &httpserver.FacilityHTTP{Svc: &service.FacilityService{Repo: store}},
		Maintenance: &httpserver.MaintenanceHTTP{Svc: maintenance},
		Verifier:    authclient.NewVerifier(cfg.Auth, nil),
		Environment: cfg.Env,
		Gatherer:    reg,
	})

	srv := server.NewServer(cfg.Port, cfg.ServiceName, e)
	if err := server.Serve(ctx, srv, logger, shutdownGrace); err != nil {
		logger.Error("http_server_failed", "error", err)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka_close_failed", "error", err)
		}
	}
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Warn("tracing_shutdown_failed", "error", err)
	}
	if err := pool.Close(); err != nil {
		logger.Warn("db_close_failed", "error", err)
	}
	logger.Info("vendor-api stopped")
}
