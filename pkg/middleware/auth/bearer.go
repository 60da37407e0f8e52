package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/logging"
	"github.com/Skotchmaster/facility_platform/pkg/tenant"
	"github.com/Skotchmaster/facility_platform/pkg/tokens"
)

const bearerPrefix = "Bearer "

type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*tokens.Claims, error)
}

type claimsKey struct{}

// Authenticate requires an "Authorization: Bearer <token>" header and stores
// the verified claims on the request context. Handlers never run for a
// request that fails here.
func Authenticate(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "authenticate")

			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				l.Warn("auth_failed", "reason", "missing or malformed authorization header")
				return apperr.Unauthorized("Authorization header missing or invalid")
			}

			claims, err := v.Verify(ctx, raw)
			if err != nil {
				l.Warn("auth_failed", "reason", "token rejected")
				return apperr.Unauthorized("Invalid token")
			}

			ctx = context.WithValue(ctx, claimsKey{}, claims)
			ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("user_sub", claims.Subject))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireTenant derives the company from verified claims. It must run after
// Authenticate.
func RequireTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			claims, ok := ClaimsFromContext(ctx)
			if !ok {
				return apperr.Unauthorized("Authorization header missing or invalid")
			}

			id, err := tenant.Parse(claims.CompanyID)
			if err != nil {
				logging.FromContext(ctx).Warn("tenant_rejected", "user_sub", claims.Subject, "company_claim", claims.CompanyID)
				return apperr.Forbidden("Access denied: tenant identifier missing or invalid")
			}

			ctx = tenant.IntoContext(ctx, id)
			ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("company_id", int64(id)))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireGroup admits only callers whose token lists group among its
// cognito:groups. It must run after Authenticate.
func RequireGroup(group string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			claims, ok := ClaimsFromContext(ctx)
			if !ok {
				return apperr.Unauthorized("Authorization header missing or invalid")
			}
			if !claims.InGroup(group) {
				logging.FromContext(ctx).Warn("group_rejected", "user_sub", claims.Subject, "required_group", group)
				return apperr.Forbidden("Access denied: insufficient permissions")
			}
			return next(c)
		}
	}
}

func ClaimsFromContext(ctx context.Context) (*tokens.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*tokens.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	if raw == "" || strings.ContainsAny(raw, " \t") {
		return "", false
	}
	return raw, true
}
