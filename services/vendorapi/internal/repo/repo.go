package repo

import (
	"errors"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/db"
)

// GormRepo runs every query inside a tenant scoped transaction, so rows of
// other companies are filtered by row level security before they reach Go.
type GormRepo struct {
	Pool *db.Pool
}

// internal keeps typed errors returned from inside a transaction and wraps
// everything else.
func internal(msg string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Internal(msg, err)
}
