package config

import (
	"github.com/Skotchmaster/facility_platform/pkg/config"
)

const (
	ServiceName       = "staff-api"
	defaultPort       = 3000
	defaultStaffGroup = "staff"
)

type StaffConfig struct {
	config.Config
	// StaffGroup is the user pool group a token must list to reach /api.
	StaffGroup string
}

func Load() StaffConfig {
	cfg := config.Load(ServiceName, defaultPort)

	if cfg.IsProduction() {
		config.MustNonEmpty(cfg.Database.SecretName, "SECRETS_MANAGER_SECRET_NAME")
	}
	config.MustNonEmpty(cfg.Auth.KeySetURL(), "COGNITO_USER_POOL_ID or JWKS_URL")
	config.MustPositive(cfg.Database.MaxConns, "DB_MAX_CONNS")

	group := config.EnvDefault("STAFF_GROUP", defaultStaffGroup)
	config.MustNonEmpty(group, "STAFF_GROUP")

	return StaffConfig{Config: cfg, StaffGroup: group}
}
