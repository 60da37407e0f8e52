package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/logging"
	"github.com/Skotchmaster/facility_platform/pkg/tenant"
	"github.com/Skotchmaster/facility_platform/pkg/validation"
	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/transport"
)

type FacilityHTTP struct {
	Svc FacilityService
}

func (h *FacilityHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "facility.list")

	tid, err := requestTenant(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.ListFacilities(ctx, tid)
	if err != nil {
		return err
	}

	l.Debug("list_facilities_success", "count", len(items))
	return c.JSON(http.StatusOK, transport.OK(items))
}

func (h *FacilityHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "facility.get")

	tid, err := requestTenant(c)
	if err != nil {
		return err
	}

	id, ok := validation.PositiveID(c.Param("id"))
	if !ok {
		l.Warn("get_facility_failed", "status", 400, "reason", "id is not a positive integer", "id", c.Param("id"))
		return apperr.Validation("Invalid equipment ID")
	}

	eq, err := h.Svc.GetFacility(ctx, tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(eq))
}

// requestTenant reads the tenant stored by RequireTenant. A route mounted
// without that middleware fails closed.
func requestTenant(c echo.Context) (tenant.ID, error) {
	tid, ok := tenant.FromContext(c.Request().Context())
	if !ok {
		return 0, apperr.Forbidden("Access denied: tenant identifier missing or invalid")
	}
	return tid, nil
}
