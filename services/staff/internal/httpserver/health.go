package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/facility_platform/pkg/logging"
	"github.com/Skotchmaster/facility_platform/services/staff/internal/transport"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHTTP struct {
	DB      Pinger
	Service string
}

// Check reports healthy only when the database answers SELECT 1.
func (h *HealthHTTP) Check(c echo.Context) error {
	ctx := c.Request().Context()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	if err := h.DB.Ping(ctx); err != nil {
		logging.FromContext(ctx).Error("health_check_failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, transport.HealthResponse{
			Status:    "unhealthy",
			Timestamp: now,
			Service:   h.Service,
			Error:     "Database connection failed",
		})
	}

	return c.JSON(http.StatusOK, transport.HealthResponse{
		Status:    "healthy",
		Timestamp: now,
		Service:   h.Service,
	})
}
