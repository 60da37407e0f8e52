package transport

import (
	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/validation"
	"github.com/Skotchmaster/facility_platform/services/staff/internal/models"
)

type CreateEquipmentRequest struct {
	EquipmentName   string  `json:"equipment_name"   validate:"required,max=255"`
	ModelNumber     *string `json:"model_number"     validate:"omitempty,max=100"`
	Category        string  `json:"category"         validate:"required,max=50"`
	Quantity        int     `json:"quantity"         validate:"required,gt=0"`
	StorageLocation *string `json:"storage_location" validate:"omitempty,max=255"`
	PurchaseDate    *string `json:"purchase_date"    validate:"omitempty,iso8601"`
	CompanyID       int64   `json:"company_id"       validate:"required,gt=0"`
}

func (r CreateEquipmentRequest) ToModel() (*models.Equipment, error) {
	companyID := r.CompanyID
	eq := &models.Equipment{
		EquipmentName:   r.EquipmentName,
		ModelNumber:     r.ModelNumber,
		Category:        r.Category,
		Quantity:        r.Quantity,
		StorageLocation: r.StorageLocation,
		CompanyID:       &companyID,
	}
	if r.PurchaseDate != nil && *r.PurchaseDate != "" {
		d, err := validation.ParseDate(*r.PurchaseDate)
		if err != nil {
			return nil, apperr.Validation("purchase_date must be a valid ISO 8601 date")
		}
		eq.PurchaseDate = &d
	}
	return eq, nil
}

type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ListResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Count   int  `json:"count"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Error     string `json:"error,omitempty"`
}
