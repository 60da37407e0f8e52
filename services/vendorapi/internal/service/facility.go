package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Skotchmaster/facility_platform/pkg/tenant"
	"github.com/Skotchmaster/facility_platform/pkg/tracing"
	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/models"
)

type FacilityRepository interface {
	ListFacilities(ctx context.Context, tid tenant.ID) ([]models.Facility, error)
	GetFacility(ctx context.Context, tid tenant.ID, id int64) (*models.Equipment, error)
}

type FacilityService struct {
	Repo FacilityRepository
}

func (s *FacilityService) ListFacilities(ctx context.Context, tid tenant.ID) (items []models.Facility, err error) {
	ctx, span := tracing.Start(ctx, "facility.list", attribute.Int64("company_id", int64(tid)))
	defer func() { tracing.End(span, err) }()

	return s.Repo.ListFacilities(ctx, tid)
}

func (s *FacilityService) GetFacility(ctx context.Context, tid tenant.ID, id int64) (eq *models.Equipment, err error) {
	ctx, span := tracing.Start(ctx, "facility.get",
		attribute.Int64("company_id", int64(tid)),
		attribute.Int64("equipment_id", id),
	)
	defer func() { tracing.End(span, err) }()

	return s.Repo.GetFacility(ctx, tid, id)
}
