package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/logging"
	"github.com/Skotchmaster/facility_platform/pkg/validation"
	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/transport"
)

type MaintenanceHTTP struct {
	Svc MaintenanceService
}

func (h *MaintenanceHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "maintenance.history")

	tid, err := requestTenant(c)
	if err != nil {
		return err
	}

	id, ok := validation.PositiveID(c.Param("id"))
	if !ok {
		l.Warn("maintenance_history_failed", "status", 400, "reason", "id is not a positive integer", "id", c.Param("id"))
		return apperr.Validation("Invalid equipment ID")
	}

	history, err := h.Svc.History(ctx, tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(history))
}

func (h *MaintenanceHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "maintenance.create")

	tid, err := requestTenant(c)
	if err != nil {
		return err
	}

	var req transport.CreateMaintenanceReportRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_report_failed", "status", 400, "reason", "invalid body", "error", err)
		return apperr.Validation("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("create_report_failed", "status", 400, "reason", err.Error())
		return err
	}

	in, err := req.ToModel()
	if err != nil {
		return err
	}

	rep, err := h.Svc.CreateReport(ctx, tid, in)
	if err != nil {
		return err
	}

	l.Info("maintenance_report_created", "report_id", rep.ReportID, "equipment_id", rep.EquipmentID)
	return c.JSON(http.StatusCreated, transport.OK(rep))
}
