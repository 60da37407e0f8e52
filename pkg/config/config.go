package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	Env         string
	Port        int
	LogLevel    string

	Database Database

	AWSRegion string

	Auth Auth

	KafkaBrokers []string

	OTLPEndpoint string

	CORSAllowedOrigins []string
}

type Database struct {
	Host         string
	Port         int
	Name         string
	User         string
	Password     string
	SSL          bool
	SecretName   string
	MaxConns     int
	AcquireWait  time.Duration
	IdleTimeout  time.Duration
	RunMigration bool
}

type Auth struct {
	UserPoolID        string
	Region            string
	ClientID          string
	JWKSURL           string
	RequestsPerMinute int
}

// LoadDotenv reads the given .env files if present. Missing files are not an error.
func LoadDotenv(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			log.Printf("notice: %s not loaded: %v. Using system environment variables", p, err)
		}
	}
}

func Load(serviceName string, defaultPort int) Config {
	region := EnvDefault("AWS_REGION", "ap-northeast-1")
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", serviceName),
		Env:         Environment(),
		Port:        EnvIntDefault("PORT", defaultPort),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		Database: Database{
			Host:         EnvDefault("DATABASE_HOST", "localhost"),
			Port:         EnvIntDefault("DATABASE_PORT", 5432),
			Name:         EnvDefault("DATABASE_NAME", "facility_db"),
			User:         EnvDefault("DATABASE_USER", "postgres"),
			Password:     os.Getenv("DATABASE_PASSWORD"),
			SSL:          EnvBoolDefault("DATABASE_SSL", false),
			SecretName:   os.Getenv("SECRETS_MANAGER_SECRET_NAME"),
			MaxConns:     EnvIntDefault("DB_MAX_CONNS", 20),
			AcquireWait:  EnvDurationDefault("DB_ACQUIRE_TIMEOUT", 2*time.Second),
			IdleTimeout:  EnvDurationDefault("DB_IDLE_TIMEOUT", 30*time.Second),
			RunMigration: EnvBoolDefault("DB_MIGRATE", false),
		},

		AWSRegion: region,

		Auth: Auth{
			UserPoolID:        os.Getenv("COGNITO_USER_POOL_ID"),
			Region:            EnvDefault("COGNITO_REGION", region),
			ClientID:          os.Getenv("COGNITO_CLIENT_ID"),
			JWKSURL:           os.Getenv("JWKS_URL"),
			RequestsPerMinute: EnvIntDefault("JWKS_REQUESTS_PER_MINUTE", 10),
		},

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		CORSAllowedOrigins: CSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

// Environment normalizes APP_ENV (falling back to NODE_ENV) to
// development, staging or production.
func Environment() string {
	switch strings.ToLower(EnvDefault("APP_ENV", os.Getenv("NODE_ENV"))) {
	case "production", "prod":
		return "production"
	case "staging", "stg":
		return "staging"
	default:
		return "development"
	}
}

func (c Config) IsProduction() bool { return c.Env == "production" }

// Issuer is the token issuer of the configured user pool, empty when no pool is set.
func (a Auth) Issuer() string {
	if a.UserPoolID == "" {
		return ""
	}
	return "https://cognito-idp." + a.Region + ".amazonaws.com/" + a.UserPoolID
}

// KeySetURL returns JWKSURL when set, otherwise the user pool's well-known document.
func (a Auth) KeySetURL() string {
	if a.JWKSURL != "" {
		return a.JWKSURL
	}
	if iss := a.Issuer(); iss != "" {
		return iss + "/.well-known/jwks.json"
	}
	return ""
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
