package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
)

func TestMiddleware_CountsByRouteAndStatus(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg, "vendor-api")

	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler()
	e.Use(m.Middleware())
	e.GET("/api/facilities/:id", func(c echo.Context) error {
		if c.Param("id") == "404" {
			return apperr.NotFound("Facility with ID 404 not found")
		}
		return c.JSON(http.StatusOK, map[string]any{"success": true})
	})
	e.GET("/metrics", Handler(reg))

	for _, id := range []string{"1", "2", "404"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/facilities/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/facilities/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/facilities/:id", "404")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "facility_http_requests_total"))
	assert.True(t, strings.Contains(body, `service="vendor-api"`))
}
