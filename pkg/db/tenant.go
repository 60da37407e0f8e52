package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/facility_platform/pkg/tenant"
)

// ErrAcquireTimeout is returned when no pooled connection frees up within the
// configured wait.
var ErrAcquireTimeout = errors.New("db: timed out waiting for a connection")

const setTenantSQL = "SELECT set_config('app.company_id', ?, true)"

// InTenant runs fn in a transaction on one checked-out connection with the
// row-level-security tenant set for that transaction only. The setting is
// discarded on commit or rollback, so the connection goes back to the pool
// without a tenant attached.
func (p *Pool) InTenant(ctx context.Context, id tenant.ID, fn func(tx *gorm.DB) error) error {
	if !id.Valid() {
		return tenant.ErrInvalid
	}

	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireWait)
	conn, err := p.sqlDB.Conn(acquireCtx)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return ErrAcquireTimeout
		}
		return fmt.Errorf("db: acquire connection: %w", err)
	}
	defer conn.Close()

	session := p.DB.Session(&gorm.Session{Context: ctx, NewDB: true})
	session.Statement.ConnPool = conn

	return session.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(setTenantSQL, id.String()).Error; err != nil {
			return fmt.Errorf("db: set tenant: %w", err)
		}
		return fn(tx)
	})
}
