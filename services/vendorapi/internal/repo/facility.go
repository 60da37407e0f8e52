package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/tenant"
	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/models"
)

const equipmentColumns = `e.equipment_id, e.equipment_name, e.model_number, e.category, e.quantity,
	e.storage_location, e.purchase_date, e.company_id, e.created_at, e.updated_at`

// orders carry no row level security, the company filter on them is explicit.
const listFacilitiesSQL = `SELECT ` + equipmentColumns + `,
	o.order_id, o.status AS order_status, o.order_date, o.delivery_date
FROM equipment e
LEFT JOIN LATERAL (
	SELECT ord.order_id, ord.status, ord.order_date, ord.delivery_date
	FROM orders ord
	WHERE ord.company_id = ?
	  AND EXISTS (
		SELECT 1 FROM order_items oi
		WHERE oi.order_id = ord.order_id AND oi.equipment_id = e.equipment_id
	  )
	ORDER BY ord.order_date DESC, ord.order_id DESC
	LIMIT 1
) o ON true
WHERE e.deleted_at IS NULL
ORDER BY e.equipment_name ASC, e.equipment_id ASC`

const getFacilitySQL = `SELECT ` + equipmentColumns + `
FROM equipment e
WHERE e.equipment_id = ? AND e.deleted_at IS NULL`

func (r *GormRepo) ListFacilities(ctx context.Context, tid tenant.ID) ([]models.Facility, error) {
	items := make([]models.Facility, 0)
	err := r.Pool.InTenant(ctx, tid, func(tx *gorm.DB) error {
		return tx.Raw(listFacilitiesSQL, int64(tid)).Scan(&items).Error
	})
	if err != nil {
		return nil, internal("Failed to fetch facilities", err)
	}
	return items, nil
}

func (r *GormRepo) GetFacility(ctx context.Context, tid tenant.ID, id int64) (*models.Equipment, error) {
	var eq *models.Equipment
	err := r.Pool.InTenant(ctx, tid, func(tx *gorm.DB) error {
		var err error
		eq, err = getFacility(tx, id)
		return err
	})
	if err != nil {
		return nil, internal("Failed to fetch facility", err)
	}
	return eq, nil
}

// getFacility reports rows hidden by row level security as not found.
func getFacility(tx *gorm.DB, id int64) (*models.Equipment, error) {
	var eq models.Equipment
	res := tx.Raw(getFacilitySQL, id).Scan(&eq)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound(fmt.Sprintf("Facility with ID %d not found", id))
	}
	return &eq, nil
}
