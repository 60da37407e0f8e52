package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectTimeoutSeconds = 2
	defaultMaxConns       = 20
	defaultAcquireWait    = 2 * time.Second
	defaultIdleTimeout    = 30 * time.Second
	connMaxLifetime       = 30 * time.Minute
	pingTimeout           = 3 * time.Second
)

type PoolOptions struct {
	MaxConns    int
	AcquireWait time.Duration
	IdleTimeout time.Duration
	SSL         bool
}

// Pool owns the bounded set of database connections shared by a process.
type Pool struct {
	DB          *gorm.DB
	sqlDB       *sql.DB
	acquireWait time.Duration
}

func configurePool(sqlDB *sql.DB, opts PoolOptions) {
	sqlDB.SetMaxOpenConns(opts.MaxConns)
	sqlDB.SetMaxIdleConns(max(1, opts.MaxConns/2))
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(opts.IdleTimeout)
}

func (o PoolOptions) withDefaults() PoolOptions {
	if o.MaxConns <= 0 {
		o.MaxConns = defaultMaxConns
	}
	if o.AcquireWait <= 0 {
		o.AcquireWait = defaultAcquireWait
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = defaultIdleTimeout
	}
	return o
}

// DSN renders cred as a postgres URL. With ssl the server certificate must verify.
func DSN(cred Credential, ssl bool) string {
	sslmode := "disable"
	if ssl {
		sslmode = "verify-full"
	}
	q := url.Values{}
	q.Set("sslmode", sslmode)
	q.Set("connect_timeout", strconv.Itoa(connectTimeoutSeconds))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cred.Username, cred.Password),
		Host:     net.JoinHostPort(cred.Host, strconv.Itoa(cred.Port)),
		Path:     "/" + cred.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Open creates the pool and checks it with a ping before returning.
func Open(ctx context.Context, cred Credential, opts PoolOptions) (*Pool, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	gdb, err := gorm.Open(postgres.Open(DSN(cred, opts.SSL)), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	pool, err := NewPool(gdb, opts)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return pool, nil
}

// NewPool wraps an already opened gorm handle.
func NewPool(gdb *gorm.DB, opts PoolOptions) (*Pool, error) {
	opts = opts.withDefaults()

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("db: sql handle: %w", err)
	}
	configurePool(sqlDB, opts)

	return &Pool{DB: gdb, sqlDB: sqlDB, acquireWait: opts.AcquireWait}, nil
}

// Ping runs a trivial query on a pooled connection.
func (p *Pool) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	var one int
	if err := p.DB.WithContext(pingCtx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		return fmt.Errorf("db: ping: %w", err)
	}
	return nil
}

func (p *Pool) Stats() sql.DBStats { return p.sqlDB.Stats() }

// Close drains the pool. In-flight connections are closed once released.
func (p *Pool) Close() error {
	return p.sqlDB.Close()
}
