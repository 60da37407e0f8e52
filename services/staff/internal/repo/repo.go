package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/pagination"
	"github.com/Skotchmaster/facility_platform/services/staff/internal/models"
)

// GormRepo runs as a member of the staff role, which the row policies let
// see every company.
type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) ListEquipment(ctx context.Context, page pagination.Page) ([]models.Equipment, error) {
	items := []models.Equipment{}
	err := r.DB.WithContext(ctx).Order("equipment_id ASC").Offset(page.Offset).Limit(page.Limit).Find(&items).Error
	if err != nil {
		return nil, apperr.Internal("Failed to fetch equipment", err)
	}
	return items, nil
}

func (r *GormRepo) GetEquipment(ctx context.Context, id int64) (*models.Equipment, error) {
	var eq models.Equipment
	err := r.DB.WithContext(ctx).Where("equipment_id = ?", id).First(&eq).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.NotFound(fmt.Sprintf("Equipment with ID %d not found", id))
	case err != nil:
		return nil, apperr.Internal("Failed to fetch equipment", err)
	}
	return &eq, nil
}

// CreateEquipment inserts eq after checking its company exists, both in one
// transaction.
func (r *GormRepo) CreateEquipment(ctx context.Context, eq *models.Equipment) (*models.Equipment, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if eq.CompanyID != nil {
			var n int64
			if err := tx.Model(&models.Company{}).Where("company_id = ?", *eq.CompanyID).Count(&n).Error; err != nil {
				return apperr.Internal("Failed to create equipment", err)
			}
			if n == 0 {
				return apperr.NotFound(fmt.Sprintf("Company with ID %d not found", *eq.CompanyID))
			}
		}
		if err := tx.Create(eq).Error; err != nil {
			return apperr.Internal("Failed to create equipment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return eq, nil
}

// ListOrders returns the newest orders with the ordering user and company.
func (r *GormRepo) ListOrders(ctx context.Context, page pagination.Page) ([]models.OrderSummary, error) {
	out := []models.OrderSummary{}
	err := r.DB.WithContext(ctx).
		Table("orders AS o").
		Select("o.*, u.username, c.company_name").
		Joins("JOIN users u ON o.user_id = u.user_id").
		Joins("JOIN companies c ON o.company_id = c.company_id").
		Order("o.order_date DESC, o.order_id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Internal("Failed to fetch orders", err)
	}
	return out, nil
}
