package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	middleware "github.com/Skotchmaster/facility_platform/pkg/middleware/auth"
	"github.com/Skotchmaster/facility_platform/pkg/middleware/metrics"
)

type Deps struct {
	Staff      *StaffHTTP
	Health     *HealthHTTP
	Verifier   middleware.TokenVerifier
	StaffGroup string
	Gatherer   prometheus.Gatherer
}

// Register mounts the staff routes. Staff callers see every company, so the
// API group admits only tokens carrying the staff group; vendor tokens from
// the same user pool get 403.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", d.Health.Check)
	if d.Gatherer != nil {
		e.GET("/metrics", metrics.Handler(d.Gatherer))
	}

	api := e.Group("/api", middleware.Authenticate(d.Verifier), middleware.RequireGroup(d.StaffGroup))
	api.GET("/equipment", d.Staff.ListEquipment)
	api.GET("/equipment/:id", d.Staff.GetEquipment)
	api.POST("/equipment", d.Staff.CreateEquipment)
	api.GET("/orders", d.Staff.ListOrders)
}
