package db

import (
	"context"
	"errors"
	"fmt"
)

// ErrBypassesTenantIsolation is returned when the connected role would see
// rows of every company despite the tenant setting.
var ErrBypassesTenantIsolation = errors.New("db: role bypasses tenant row level security")

// StaffRole is the group whose policies admit every company's rows.
const StaffRole = "facility_staff"

const servingRoleSQL = `SELECT r.rolname,
	r.rolsuper OR r.rolbypassrls OR CASE
		WHEN EXISTS (SELECT 1 FROM pg_roles WHERE rolname = ?) THEN pg_has_role(current_user, ?, 'MEMBER')
		ELSE false
	END AS bypasses
FROM pg_roles r
WHERE r.rolname = current_user`

// CheckTenantIsolation fails when the pool's role is a superuser, has
// BYPASSRLS or is a member of StaffRole. Tenant scoped services call it once
// at startup.
func (p *Pool) CheckTenantIsolation(ctx context.Context) error {
	var row struct {
		Rolname  string
		Bypasses bool
	}
	if err := p.DB.WithContext(ctx).Raw(servingRoleSQL, StaffRole, StaffRole).Scan(&row).Error; err != nil {
		return fmt.Errorf("db: inspect role: %w", err)
	}
	if row.Bypasses {
		return fmt.Errorf("%w: %s", ErrBypassesTenantIsolation, row.Rolname)
	}
	return nil
}
