package transport

import (
	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/validation"
	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/models"
)

type CreateMaintenanceReportRequest struct {
	EquipmentID         validation.Int64 `json:"equipment_id"          validate:"required,gt=0"`
	ReportDate          string           `json:"report_date"           validate:"required,iso8601"`
	Description         string           `json:"description"           validate:"required,min=1,max=1000"`
	NextMaintenanceDate *string          `json:"next_maintenance_date" validate:"omitempty,iso8601"`
}

// ToModel converts an already validated request. An empty next date is
// treated as absent.
func (r CreateMaintenanceReportRequest) ToModel() (models.NewMaintenanceReport, error) {
	reportDate, err := validation.ParseDate(r.ReportDate)
	if err != nil {
		return models.NewMaintenanceReport{}, apperr.Validation("report_date must be a valid ISO 8601 date")
	}

	out := models.NewMaintenanceReport{
		EquipmentID: int64(r.EquipmentID),
		ReportDate:  reportDate,
		Description: r.Description,
	}
	if r.NextMaintenanceDate != nil && *r.NextMaintenanceDate != "" {
		next, err := validation.ParseDate(*r.NextMaintenanceDate)
		if err != nil {
			return models.NewMaintenanceReport{}, apperr.Validation("next_maintenance_date must be a valid ISO 8601 date")
		}
		out.NextMaintenanceDate = &next
	}
	return out, nil
}

type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func OK(data any) DataResponse {
	return DataResponse{Success: true, Data: data}
}

type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}
