package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/logging"
	"github.com/Skotchmaster/facility_platform/pkg/pagination"
	"github.com/Skotchmaster/facility_platform/pkg/validation"
	"github.com/Skotchmaster/facility_platform/services/staff/internal/service"
	"github.com/Skotchmaster/facility_platform/services/staff/internal/transport"
)

type StaffHTTP struct {
	Svc *service.StaffService
}

func (h *StaffHTTP) ListEquipment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "equipment.list")

	page := pagination.FromQuery(c.QueryParam("page"), c.QueryParam("size"))
	items, err := h.Svc.ListEquipment(ctx, page)
	if err != nil {
		return err
	}

	l.Info("equipment_list_fetched", "count", len(items))
	return c.JSON(http.StatusOK, transport.ListResponse{Success: true, Data: items, Count: len(items)})
}

func (h *StaffHTTP) GetEquipment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "equipment.get")

	id, ok := validation.PositiveID(c.Param("id"))
	if !ok {
		l.Warn("get_equipment_failed", "status", 400, "reason", "id is not a positive integer", "id", c.Param("id"))
		return apperr.Validation("Invalid equipment ID")
	}

	eq, err := h.Svc.GetEquipment(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.DataResponse{Success: true, Data: eq})
}

func (h *StaffHTTP) CreateEquipment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "equipment.create")

	var req transport.CreateEquipmentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_equipment_failed", "status", 400, "reason", "invalid body", "error", err)
		return apperr.Validation("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("create_equipment_failed", "status", 400, "reason", err.Error())
		return err
	}

	in, err := req.ToModel()
	if err != nil {
		return err
	}

	eq, err := h.Svc.CreateEquipment(ctx, in)
	if err != nil {
		return err
	}

	l.Info("equipment_created", "equipment_id", eq.EquipmentID, "company_id", *eq.CompanyID)
	return c.JSON(http.StatusCreated, transport.DataResponse{Success: true, Data: eq})
}

func (h *StaffHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	page := pagination.FromQuery(c.QueryParam("page"), c.QueryParam("size"))
	orders, err := h.Svc.ListOrders(ctx, page)
	if err != nil {
		return err
	}

	l.Info("orders_list_fetched", "count", len(orders))
	return c.JSON(http.StatusOK, transport.ListResponse{Success: true, Data: orders, Count: len(orders)})
}
