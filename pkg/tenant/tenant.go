// Package tenant holds the company identifier that scopes vendor data.
package tenant

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// ID identifies a company. Valid ids are strictly positive.
type ID int64

var ErrInvalid = errors.New("tenant: identifier missing or invalid")

// Parse converts the raw company claim into an ID. Empty, non-numeric and
// non-positive values are rejected rather than defaulted.
func Parse(raw string) (ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalid
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalid
	}
	return ID(n), nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id ID) Valid() bool { return id > 0 }

type ctxKey struct{}

func IntoContext(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(ctxKey{}).(ID)
	return id, ok && id.Valid()
}
