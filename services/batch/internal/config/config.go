package config

import (
	"github.com/Skotchmaster/facility_platform/pkg/config"
	"github.com/Skotchmaster/facility_platform/pkg/search"
)

const (
	ServiceName     = "facility-batch"
	defaultMaxConns = 5
)

type BatchConfig struct {
	config.Config
	ReportsBucket string
	Search        search.Config
	ReportsIndex  string
}

// Load reads the batch settings. The pool is capped at five connections
// unless DB_MAX_CONNS says otherwise.
func Load() BatchConfig {
	cfg := config.Load(ServiceName, 0)
	cfg.Database.MaxConns = config.EnvIntDefault("DB_MAX_CONNS", defaultMaxConns)

	if cfg.IsProduction() {
		config.MustNonEmpty(cfg.Database.SecretName, "SECRETS_MANAGER_SECRET_NAME")
	}
	config.MustPositive(cfg.Database.MaxConns, "DB_MAX_CONNS")

	return BatchConfig{
		Config:        cfg,
		ReportsBucket: config.EnvDefault("S3_REPORTS_BUCKET", "facility-prod-reports"),
		Search: search.Config{
			URL:      config.EnvDefault("ES_URL", ""),
			User:     config.EnvDefault("ES_USER", ""),
			Password: config.EnvDefault("ES_PASSWORD", ""),
		},
		ReportsIndex: config.EnvDefault("ES_REPORTS_INDEX", "facility-reports"),
	}
}
