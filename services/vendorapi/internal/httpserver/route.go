package httpserver

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	middleware "github.com/Skotchmaster/facility_platform/pkg/middleware/auth"
	"github.com/Skotchmaster/facility_platform/pkg/middleware/metrics"
	"github.com/Skotchmaster/facility_platform/pkg/tenant"
	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/models"
)

type FacilityService interface {
	ListFacilities(ctx context.Context, tid tenant.ID) ([]models.Facility, error)
	GetFacility(ctx context.Context, tid tenant.ID, id int64) (*models.Equipment, error)
}

type MaintenanceService interface {
	History(ctx context.Context, tid tenant.ID, equipmentID int64) (*models.MaintenanceHistory, error)
	CreateReport(ctx context.Context, tid tenant.ID, in models.NewMaintenanceReport) (*models.MaintenanceReport, error)
}

type Deps struct {
	Facilities  *FacilityHTTP
	Maintenance *MaintenanceHTTP
	Verifier    middleware.TokenVerifier
	Environment string
	Gatherer    prometheus.Gatherer
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", Health(d.Environment))
	if d.Gatherer != nil {
		e.GET("/metrics", metrics.Handler(d.Gatherer))
	}

	api := e.Group("/api", middleware.Authenticate(d.Verifier), middleware.RequireTenant())

	api.GET("/facilities", d.Facilities.List)
	api.GET("/facilities/:id", d.Facilities.Get)
	api.GET("/facilities/:id/maintenance-history", d.Maintenance.History)
	api.POST("/maintenance-reports", d.Maintenance.Create)
}
