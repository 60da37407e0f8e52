package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/db"
	server "github.com/Skotchmaster/facility_platform/pkg/httpserver"
	"github.com/Skotchmaster/facility_platform/pkg/tokens"
	"github.com/Skotchmaster/facility_platform/services/staff/internal/models"
	"github.com/Skotchmaster/facility_platform/services/staff/internal/repo"
	"github.com/Skotchmaster/facility_platform/services/staff/internal/service"
)

const (
	staffToken  = "staff-token"
	vendorToken = "vendor-token"
)

type staticVerifier struct{}

func (staticVerifier) Verify(_ context.Context, raw string) (*tokens.Claims, error) {
	switch raw {
	case staffToken:
		return &tokens.Claims{Subject: "staff-1", Username: "staff", Groups: []string{"staff"}}, nil
	case vendorToken:
		return &tokens.Claims{Subject: "vendor-1", Username: "vendor", CompanyID: "1"}, nil
	}
	return nil, apperr.Unauthorized("Invalid token")
}

type downDB struct{}

func (downDB) Ping(context.Context) error { return errors.New("dial tcp: connection refused") }

func newTestServer(t *testing.T, pinger Pinger) (*echo.Echo, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	pool, err := db.NewPool(gdb, db.PoolOptions{MaxConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	require.NoError(t, gdb.AutoMigrate(&models.Company{}, &models.User{}, &models.Equipment{}, &models.Order{}))
	one := int64(1)
	require.NoError(t, gdb.Create(&models.Company{CompanyID: 1, CompanyName: "Company A"}).Error)
	require.NoError(t, gdb.Create(&models.Equipment{EquipmentID: 1, EquipmentName: "Air Conditioner", Category: "HVAC", Quantity: 5, CompanyID: &one}).Error)

	if pinger == nil {
		pinger = pool
	}

	e := server.New(server.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	Register(e, &Deps{
		Staff:      &StaffHTTP{Svc: &service.StaffService{Repo: &repo.GormRepo{DB: gdb}}},
		Health:     &HealthHTTP{DB: pinger, Service: "staff-api"},
		Verifier:   staticVerifier{},
		StaffGroup: "staff",
	})
	return e, gdb
}

func do(t *testing.T, e *echo.Echo, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+staffToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestHealth(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t, nil)
	rec, out := do(t, e, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "staff-api", out["service"])
	assert.NotContains(t, out, "error")
}

func TestHealth_DatabaseDown(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t, downDB{})
	rec, out := do(t, e, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", out["status"])
	assert.Equal(t, "Database connection failed", out["error"])
}

func TestAPIRequiresToken(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/equipment", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIRejectsVendorToken(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t, nil)
	for _, target := range []string{"/api/equipment", "/api/equipment/1", "/api/orders"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+vendorToken)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, target)
		assert.NotContains(t, rec.Body.String(), "Air Conditioner", target)
	}
}

func TestListEquipment(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t, nil)
	rec, out := do(t, e, http.MethodGet, "/api/equipment", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.EqualValues(t, 1, out["count"])
	assert.Len(t, out["data"], 1)
}

func TestListEquipment_SecondPageIsEmpty(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t, nil)
	rec, out := do(t, e, http.MethodGet, "/api/equipment?page=2&size=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, out["count"])
}

func TestGetEquipment(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t, nil)

	rec, out := do(t, e, http.MethodGet, "/api/equipment/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := out["data"].(map[string]any)
	assert.Equal(t, "Air Conditioner", data["equipment_name"])
	assert.NotContains(t, data, "deleted_at")

	rec, out = do(t, e, http.MethodGet, "/api/equipment/999999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Equipment with ID 999999 not found", out["error"].(map[string]any)["message"])

	rec, _ = do(t, e, http.MethodGet, "/api/equipment/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEquipment(t *testing.T) {
	t.Parallel()

	e, gdb := newTestServer(t, nil)

	rec, out := do(t, e, http.MethodPost, "/api/equipment", map[string]any{
		"equipment_name": "Boiler",
		"category":       "HVAC",
		"quantity":       2,
		"purchase_date":  "2024-05-01",
		"company_id":     1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, out)
	data := out["data"].(map[string]any)
	assert.Equal(t, "Boiler", data["equipment_name"])

	var n int64
	require.NoError(t, gdb.Model(&models.Equipment{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestCreateEquipment_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		body   map[string]any
		status int
		msg    string
	}{
		{"missing name", map[string]any{"category": "HVAC", "quantity": 1, "company_id": 1}, http.StatusBadRequest, "equipment_name is required"},
		{"zero quantity", map[string]any{"equipment_name": "x", "category": "HVAC", "quantity": 0, "company_id": 1}, http.StatusBadRequest, "quantity is required"},
		{"bad date", map[string]any{"equipment_name": "x", "category": "HVAC", "quantity": 1, "company_id": 1, "purchase_date": "yesterday"}, http.StatusBadRequest, "purchase_date must be a valid ISO 8601 date"},
		{"unknown company", map[string]any{"equipment_name": "x", "category": "HVAC", "quantity": 1, "company_id": 9}, http.StatusNotFound, "Company with ID 9 not found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e, _ := newTestServer(t, nil)
			rec, out := do(t, e, http.MethodPost, "/api/equipment", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.msg, out["error"].(map[string]any)["message"])
		})
	}
}

func TestListOrders_Empty(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t, nil)
	rec, out := do(t, e, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, out["count"])
	assert.Equal(t, []any{}, out["data"])
}
