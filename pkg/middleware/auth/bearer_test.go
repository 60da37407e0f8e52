package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/tenant"
	"github.com/Skotchmaster/facility_platform/pkg/tokens"
)

type fakeVerifier struct {
	claims *tokens.Claims
	calls  int
	got    string
}

func (f *fakeVerifier) Verify(_ context.Context, raw string) (*tokens.Claims, error) {
	f.calls++
	f.got = raw
	if f.claims == nil {
		return nil, apperr.Unauthorized("Invalid token")
	}
	return f.claims, nil
}

func run(t *testing.T, header string, mws []echo.MiddlewareFunc, h echo.HandlerFunc) error {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/facilities", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h(c)
}

func TestAuthenticate_RejectsMissingOrMalformedHeader(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic dXNlcjpwYXNz", "Token abc", "Bearer a b"} {
		v := &fakeVerifier{claims: &tokens.Claims{Subject: "u"}}
		called := false
		err := run(t, header, []echo.MiddlewareFunc{Authenticate(v)}, func(c echo.Context) error {
			called = true
			return nil
		})

		require.Error(t, err, "header=%q", header)
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
		assert.Equal(t, "Authorization header missing or invalid", err.Error())
		assert.Zero(t, v.calls, "verifier must not run for header=%q", header)
		assert.False(t, called)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	t.Parallel()

	v := &fakeVerifier{}
	called := false
	err := run(t, "Bearer expired.jwt.token", []echo.MiddlewareFunc{Authenticate(v)}, func(c echo.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, "Invalid token", err.Error())
	assert.Equal(t, http.StatusUnauthorized, apperr.KindOf(err).Status())
	assert.Equal(t, "expired.jwt.token", v.got)
	assert.False(t, called)
}

func TestAuthenticate_StoresClaims(t *testing.T) {
	t.Parallel()

	v := &fakeVerifier{claims: &tokens.Claims{Subject: "test-user-123", CompanyID: "1"}}
	err := run(t, "bearer good.jwt.token", []echo.MiddlewareFunc{Authenticate(v)}, func(c echo.Context) error {
		claims, ok := ClaimsFromContext(c.Request().Context())
		require.True(t, ok)
		assert.Equal(t, "test-user-123", claims.Subject)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, err)
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		companyID string
		wantErr   bool
		want      tenant.ID
	}{
		{name: "numeric", companyID: "2", want: 2},
		{name: "missing", companyID: "", wantErr: true},
		{name: "non numeric", companyID: "acme", wantErr: true},
		{name: "zero", companyID: "0", wantErr: true},
		{name: "negative", companyID: "-1", wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := &fakeVerifier{claims: &tokens.Claims{Subject: "u", CompanyID: tc.companyID}}
			var got tenant.ID
			err := run(t, "Bearer t", []echo.MiddlewareFunc{Authenticate(v), RequireTenant()}, func(c echo.Context) error {
				got, _ = tenant.FromContext(c.Request().Context())
				return nil
			})

			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, apperr.KindForbidden))
				assert.Equal(t, "Access denied: tenant identifier missing or invalid", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRequireTenant_WithoutAuthenticate(t *testing.T) {
	t.Parallel()

	err := run(t, "", []echo.MiddlewareFunc{RequireTenant()}, func(c echo.Context) error { return nil })
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestRequireGroup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		groups  []string
		wantErr bool
	}{
		{name: "member", groups: []string{"admins", "staff"}},
		{name: "other group", groups: []string{"vendors"}, wantErr: true},
		{name: "no groups", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := &fakeVerifier{claims: &tokens.Claims{Subject: "u", CompanyID: "1", Groups: tc.groups}}
			called := false
			err := run(t, "Bearer t", []echo.MiddlewareFunc{Authenticate(v), RequireGroup("staff")}, func(c echo.Context) error {
				called = true
				return nil
			})

			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, apperr.KindForbidden))
				assert.False(t, called)
				return
			}
			require.NoError(t, err)
			assert.True(t, called)
		})
	}
}
