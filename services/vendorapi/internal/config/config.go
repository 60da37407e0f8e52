package config

import (
	"github.com/Skotchmaster/facility_platform/pkg/config"
)

const (
	ServiceName = "vendor-api"
	defaultPort = 4000
)

type ServiceConfig struct {
	config.Config
	MaintenanceTopic string
}

func Load() ServiceConfig {
	cfg := config.Load(ServiceName, defaultPort)

	if cfg.IsProduction() {
		config.MustNonEmpty(cfg.Database.SecretName, "SECRETS_MANAGER_SECRET_NAME")
	}
	config.MustNonEmpty(cfg.Auth.KeySetURL(), "COGNITO_USER_POOL_ID or JWKS_URL")
	config.MustPositive(cfg.Auth.RequestsPerMinute, "JWKS_REQUESTS_PER_MINUTE")
	config.MustPositive(cfg.Database.MaxConns, "DB_MAX_CONNS")
	config.MustBeFalse(cfg.Database.RunMigration, "DB_MIGRATE", "vendor-api serves with tenant credentials; run facility-batch migrate as the schema owner")

	return ServiceConfig{
		Config:           cfg,
		MaintenanceTopic: config.EnvDefault("KAFKA_MAINTENANCE_TOPIC", "maintenance_events"),
	}
}
