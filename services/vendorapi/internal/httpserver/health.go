package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/transport"
)

// Health is unauthenticated and does not touch the database.
func Health(env string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, transport.HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
			Environment: env,
		})
	}
}
