package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/tenant"
	"github.com/Skotchmaster/facility_platform/pkg/validation"
	"github.com/Skotchmaster/facility_platform/services/vendorapi/internal/models"
)

const reportColumns = `report_id, equipment_id, company_id, report_date, description,
	next_maintenance_date, created_at`

const listReportsSQL = `SELECT ` + reportColumns + `
FROM maintenance_reports
WHERE equipment_id = ?
ORDER BY report_date DESC, report_id DESC`

const equipmentExistsSQL = `SELECT EXISTS (
	SELECT 1 FROM equipment WHERE equipment_id = ? AND deleted_at IS NULL
)`

const insertReportSQL = `INSERT INTO maintenance_reports (
	equipment_id, company_id, report_date, description, next_maintenance_date
) VALUES (?, ?, ?, ?, ?)
RETURNING ` + reportColumns

// MaintenanceHistory returns the equipment and its reports, newest first.
func (r *GormRepo) MaintenanceHistory(ctx context.Context, tid tenant.ID, equipmentID int64) (*models.MaintenanceHistory, error) {
	var out *models.MaintenanceHistory
	err := r.Pool.InTenant(ctx, tid, func(tx *gorm.DB) error {
		eq, err := getFacility(tx, equipmentID)
		if err != nil {
			return err
		}

		reports := make([]models.MaintenanceReport, 0)
		if err := tx.Raw(listReportsSQL, equipmentID).Scan(&reports).Error; err != nil {
			return err
		}
		out = &models.MaintenanceHistory{Equipment: *eq, Reports: reports}
		return nil
	})
	if err != nil {
		return nil, internal("Failed to fetch maintenance history", err)
	}
	return out, nil
}

// CreateMaintenanceReport stores in for the equipment if the tenant can see it.
// The company is always the caller's tenant, never taken from the request.
func (r *GormRepo) CreateMaintenanceReport(ctx context.Context, tid tenant.ID, in models.NewMaintenanceReport) (*models.MaintenanceReport, error) {
	var out models.MaintenanceReport
	err := r.Pool.InTenant(ctx, tid, func(tx *gorm.DB) error {
		var exists bool
		if err := tx.Raw(equipmentExistsSQL, in.EquipmentID).Scan(&exists).Error; err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound(fmt.Sprintf("Equipment with ID %d not found", in.EquipmentID))
		}

		return tx.Raw(insertReportSQL,
			in.EquipmentID,
			int64(tid),
			dateArg(&in.ReportDate),
			in.Description,
			dateArg(in.NextMaintenanceDate),
		).Scan(&out).Error
	})
	if err != nil {
		return nil, internal("Failed to create maintenance report", err)
	}
	return &out, nil
}

// dateArg binds a calendar date as text so the session time zone cannot shift it.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(validation.DateLayout)
}
