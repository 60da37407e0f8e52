package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Skotchmaster/facility_platform/pkg/logging"
	"github.com/Skotchmaster/facility_platform/pkg/tenant"
	"github.com/Skotchmaster/facility_platform/pkg/tracing"
	"github.com/Skotchmaster/facility_platform/pkg/validation"
	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/models"
)

const EventMaintenanceReportCreated = "maintenance_report_created"

type MaintenanceRepository interface {
	MaintenanceHistory(ctx context.Context, tid tenant.ID, equipmentID int64) (*models.MaintenanceHistory, error)
	CreateMaintenanceReport(ctx context.Context, tid tenant.ID, in models.NewMaintenanceReport) (*models.MaintenanceReport, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type MaintenanceReportEvent struct {
	EventID             string    `json:"event_id"`
	Type                string    `json:"type"`
	ReportID            int64     `json:"report_id"`
	EquipmentID         int64     `json:"equipment_id"`
	CompanyID           int64     `json:"company_id"`
	ReportDate          string    `json:"report_date"`
	NextMaintenanceDate *string   `json:"next_maintenance_date"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// MaintenanceService publishes an event for every stored report when Events
// is set. Publishing is best effort and never fails the request.
type MaintenanceService struct {
	Repo   MaintenanceRepository
	Events EventPublisher
	Topic  string
}

func (s *MaintenanceService) History(ctx context.Context, tid tenant.ID, equipmentID int64) (h *models.MaintenanceHistory, err error) {
	ctx, span := tracing.Start(ctx, "maintenance.history",
		attribute.Int64("company_id", int64(tid)),
		attribute.Int64("equipment_id", equipmentID),
	)
	defer func() { tracing.End(span, err) }()

	return s.Repo.MaintenanceHistory(ctx, tid, equipmentID)
}

func (s *MaintenanceService) CreateReport(ctx context.Context, tid tenant.ID, in models.NewMaintenanceReport) (rep *models.MaintenanceReport, err error) {
	ctx, span := tracing.Start(ctx, "maintenance.create_report",
		attribute.Int64("company_id", int64(tid)),
		attribute.Int64("equipment_id", in.EquipmentID),
	)
	defer func() { tracing.End(span, err) }()

	rep, err = s.Repo.CreateMaintenanceReport(ctx, tid, in)
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, rep)
	return rep, nil
}

func (s *MaintenanceService) publishCreated(ctx context.Context, rep *models.MaintenanceReport) {
	if s.Events == nil {
		return
	}

	event := MaintenanceReportEvent{
		EventID:     uuid.NewString(),
		Type:        EventMaintenanceReportCreated,
		ReportID:    rep.ReportID,
		EquipmentID: rep.EquipmentID,
		CompanyID:   rep.CompanyID,
		ReportDate:  rep.ReportDate.Format(validation.DateLayout),
		OccurredAt:  time.Now().UTC(),
	}
	if rep.NextMaintenanceDate != nil {
		next := rep.NextMaintenanceDate.Format(validation.DateLayout)
		event.NextMaintenanceDate = &next
	}

	if err := s.Events.PublishEvent(ctx, s.Topic, strconv.FormatInt(rep.CompanyID, 10), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", s.Topic, "report_id", rep.ReportID, "error", err)
	}
}
