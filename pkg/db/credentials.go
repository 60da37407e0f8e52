package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/Skotchmaster/facility_platform/pkg/config"
)

// Credential is resolved once before the pool opens and never changes afterwards.
type Credential struct {
	Username string
	Password string
	Host     string
	Port     int
	DBName   string
}

func (c Credential) Validate() error {
	switch {
	case c.Host == "":
		return errors.New("db: credential host is empty")
	case c.Username == "":
		return errors.New("db: credential username is empty")
	case c.DBName == "":
		return errors.New("db: credential database name is empty")
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("db: credential port %d out of range", c.Port)
	}
	return nil
}

type SecretGetter interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// NewSecretsManager builds a Secrets Manager client from the default AWS
// credential chain.
func NewSecretsManager(ctx context.Context, region string) (*secretsmanager.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("db: aws config: %w", err)
	}
	return secretsmanager.NewFromConfig(awsCfg), nil
}

// ResolveCredentials reads the secret named by cfg.SecretName in production
// and the DATABASE_* settings otherwise.
func ResolveCredentials(ctx context.Context, cfg config.Database, production bool, sm SecretGetter) (Credential, error) {
	if !production {
		return Credential{
			Username: cfg.User,
			Password: cfg.Password,
			Host:     cfg.Host,
			Port:     cfg.Port,
			DBName:   cfg.Name,
		}, nil
	}

	if cfg.SecretName == "" {
		return Credential{}, errors.New("db: SECRETS_MANAGER_SECRET_NAME not configured")
	}
	if sm == nil {
		return Credential{}, errors.New("db: secrets manager client is nil")
	}

	out, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(cfg.SecretName)})
	if err != nil {
		return Credential{}, fmt.Errorf("db: get secret %q: %w", cfg.SecretName, err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return Credential{}, fmt.Errorf("db: secret %q is empty", cfg.SecretName)
	}

	return parseSecret(*out.SecretString)
}

type secretPayload struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Host     string          `json:"host"`
	Port     json.RawMessage `json:"port"`
	DBName   string          `json:"dbname"`
}

func parseSecret(raw string) (Credential, error) {
	var p secretPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Credential{}, fmt.Errorf("db: decode secret: %w", err)
	}

	port, err := parsePort(p.Port)
	if err != nil {
		return Credential{}, err
	}

	cred := Credential{
		Username: p.Username,
		Password: p.Password,
		Host:     p.Host,
		Port:     port,
		DBName:   p.DBName,
	}
	return cred, cred.Validate()
}

// parsePort accepts the port as a JSON number or a quoted string.
func parsePort(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 5432, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("db: secret port: %w", err)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("db: secret port %q: %w", s, err)
	}
	return n, nil
}
