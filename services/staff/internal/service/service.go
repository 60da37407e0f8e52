package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Skotchmaster/facility_platform/pkg/pagination"
	"github.com/Skotchmaster/facility_platform/pkg/tracing"
	"github.com/Skotchmaster/facility_platform/services/staff/internal/models"
)

type Repository interface {
	ListEquipment(ctx context.Context, page pagination.Page) ([]models.Equipment, error)
	GetEquipment(ctx context.Context, id int64) (*models.Equipment, error)
	CreateEquipment(ctx context.Context, eq *models.Equipment) (*models.Equipment, error)
	ListOrders(ctx context.Context, page pagination.Page) ([]models.OrderSummary, error)
}

type StaffService struct {
	Repo Repository
}

func (s *StaffService) ListEquipment(ctx context.Context, page pagination.Page) (items []models.Equipment, err error) {
	ctx, span := tracing.Start(ctx, "equipment.list", attribute.Int("page.offset", page.Offset))
	defer func() { tracing.End(span, err) }()

	return s.Repo.ListEquipment(ctx, page)
}

func (s *StaffService) GetEquipment(ctx context.Context, id int64) (eq *models.Equipment, err error) {
	ctx, span := tracing.Start(ctx, "equipment.get", attribute.Int64("equipment_id", id))
	defer func() { tracing.End(span, err) }()

	return s.Repo.GetEquipment(ctx, id)
}

func (s *StaffService) CreateEquipment(ctx context.Context, in *models.Equipment) (eq *models.Equipment, err error) {
	ctx, span := tracing.Start(ctx, "equipment.create")
	defer func() { tracing.End(span, err) }()

	return s.Repo.CreateEquipment(ctx, in)
}

func (s *StaffService) ListOrders(ctx context.Context, page pagination.Page) (orders []models.OrderSummary, err error) {
	ctx, span := tracing.Start(ctx, "order.list", attribute.Int("page.offset", page.Offset))
	defer func() { tracing.End(span, err) }()

	return s.Repo.ListOrders(ctx, page)
}
