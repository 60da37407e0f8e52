package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/facility_platform/pkg/config"
	pkgdb "github.com/Skotchmaster/facility_platform/pkg/db"
	"github.com/Skotchmaster/facility_platform/pkg/logging"
	"github.com/Skotchmaster/facility_platform/pkg/search"
	"github.com/Skotchmaster/facility_platform/pkg/storage"
	"github.com/Skotchmaster/facility_platform/pkg/tracing"

	batchcfg "github.com/Skotchmaster/facility_platform/services/batch/internal/config"
	"github.com/Skotchmaster/facility_platform/services/batch/internal/cli"
	"github.com/Skotchmaster/facility_platform/services/batch/internal/report"
)

func main() {
	config.LoadDotenv("services/batch/.env", ".env")
	cfg := batchcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = logging.IntoContext(ctx, logger)

	root := cli.NewRootCommand(cli.Actions{
		Report:  func(ctx context.Context, p report.Period) error { return runReport(ctx, cfg, logger, p) },
		Migrate: func(ctx context.Context) error { return runMigrate(ctx, cfg, logger) },
	})
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("batch_failed", "error", err)
		os.Exit(1)
	}
}

func credentials(ctx context.Context, cfg batchcfg.BatchConfig) (pkgdb.Credential, error) {
	var secrets pkgdb.SecretGetter
	if cfg.IsProduction() {
		sm, err := pkgdb.NewSecretsManager(ctx, cfg.AWSRegion)
		if err != nil {
			return pkgdb.Credential{}, err
		}
		secrets = sm
	}
	return pkgdb.ResolveCredentials(ctx, cfg.Database, cfg.IsProduction(), secrets)
}

func runMigrate(ctx context.Context, cfg batchcfg.BatchConfig, l *slog.Logger) error {
	cred, err := credentials(ctx, cfg)
	if err != nil {
		return err
	}
	dsn := pkgdb.DSN(cred, cfg.Database.SSL)
	if err := pkgdb.Migrate(dsn, l); err != nil {
		return err
	}

	version, dirty, err := pkgdb.MigrationVersion(dsn)
	if err != nil {
		return fmt.Errorf("reading migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database left dirty at version %d", version)
	}
	l.Info("migration_version", "version", version)
	return nil
}

func runReport(ctx context.Context, cfg batchcfg.BatchConfig, l *slog.Logger, p report.Period) (err error) {
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if ferr := shutdownTracing(flushCtx); ferr != nil {
			l.Warn("tracing_shutdown_failed", "error", ferr)
		}
	}()

	cred, err := credentials(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db credentials: %w", err)
	}
	pool, err := pkgdb.Open(ctx, cred, pkgdb.PoolOptions{
		MaxConns:    cfg.Database.MaxConns,
		AcquireWait: cfg.Database.AcquireWait,
		IdleTimeout: cfg.Database.IdleTimeout,
		SSL:         cfg.Database.SSL,
	})
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer pool.Close()
	l.Info("db_connected", "host", cred.Host, "database", cred.DBName)

	uploader, err := storage.NewS3Uploader(ctx, cfg.AWSRegion, cfg.ReportsBucket)
	if err != nil {
		return err
	}

	job := &report.Job{DB: pool.DB, Uploader: uploader}
	if cfg.Search.URL != "" {
		client, err := search.NewClient(ctx, cfg.Search, l)
		if err != nil {
			l.Warn("es_unavailable", "error", err)
		} else {
			job.Indexer = search.NewIndexer(client, cfg.ReportsIndex)
		}
	}

	res, err := job.Run(ctx, p)
	if err != nil {
		return err
	}
	l.Info("batch_completed", "report", p.Kind, "period", p.String(), "location", res.Location, "rows", res.Rows)
	return nil
}
