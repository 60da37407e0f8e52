package report

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Orders and maintenance reports are aggregated in separate lateral
// subqueries so neither count multiplies the other.
const annualSQL = `
SELECT
    e.equipment_id,
    e.equipment_name,
    e.category,
    EXTRACT(YEAR FROM AGE(?::date, e.purchase_date))::integer AS years_since_purchase,
    COALESCE(ord.total_orders, 0) AS total_orders_year,
    COALESCE(ord.total_amount, 0) AS total_amount_year,
    COALESCE(mr.total_maintenance, 0) AS total_maintenance_year,
    mr.avg_interval_days AS avg_maintenance_interval_days
FROM equipment e
LEFT JOIN LATERAL (
    SELECT COUNT(*) AS total_orders, SUM(o.total_amount) AS total_amount
    FROM orders o
    WHERE o.order_date >= ? AND o.order_date < ?
      AND EXISTS (
          SELECT 1 FROM order_items oi
          WHERE oi.order_id = o.order_id AND oi.equipment_id = e.equipment_id
      )
) ord ON true
LEFT JOIN LATERAL (
    SELECT
        COUNT(*) AS total_maintenance,
        CASE WHEN COUNT(*) > 1
            THEN (MAX(r.report_date) - MIN(r.report_date))::numeric / (COUNT(*) - 1)
        END AS avg_interval_days
    FROM maintenance_reports r
    WHERE r.equipment_id = e.equipment_id
      AND r.report_date >= ? AND r.report_date < ?
) mr ON true
WHERE e.deleted_at IS NULL
ORDER BY years_since_purchase DESC NULLS LAST, e.category, e.equipment_name`

const monthlySQL = `
SELECT
    e.equipment_id,
    e.equipment_name,
    e.category,
    COALESCE(ord.total_orders, 0) AS total_orders,
    COALESCE(ord.total_amount, 0) AS total_amount,
    COALESCE(mr.maintenance_count, 0) AS maintenance_count
FROM equipment e
LEFT JOIN LATERAL (
    SELECT COUNT(*) AS total_orders, SUM(o.total_amount) AS total_amount
    FROM orders o
    WHERE o.order_date >= ? AND o.order_date < ?
      AND EXISTS (
          SELECT 1 FROM order_items oi
          WHERE oi.order_id = o.order_id AND oi.equipment_id = e.equipment_id
      )
) ord ON true
LEFT JOIN LATERAL (
    SELECT COUNT(*) AS maintenance_count
    FROM maintenance_reports r
    WHERE r.equipment_id = e.equipment_id
      AND r.report_date >= ? AND r.report_date < ?
) mr ON true
WHERE e.deleted_at IS NULL
ORDER BY e.category, e.equipment_name`

type AnnualRow struct {
	EquipmentID                int64    `gorm:"column:equipment_id"                  json:"equipment_id"`
	EquipmentName              string   `gorm:"column:equipment_name"                json:"equipment_name"`
	Category                   string   `gorm:"column:category"                      json:"category"`
	YearsSincePurchase         *int     `gorm:"column:years_since_purchase"          json:"years_since_purchase"`
	TotalOrdersYear            int64    `gorm:"column:total_orders_year"             json:"total_orders_year"`
	TotalAmountYear            float64  `gorm:"column:total_amount_year"             json:"total_amount_year"`
	TotalMaintenanceYear       int64    `gorm:"column:total_maintenance_year"        json:"total_maintenance_year"`
	AvgMaintenanceIntervalDays *float64 `gorm:"column:avg_maintenance_interval_days" json:"avg_maintenance_interval_days"`
}

type MonthlyRow struct {
	EquipmentID      int64   `gorm:"column:equipment_id"      json:"equipment_id"`
	EquipmentName    string  `gorm:"column:equipment_name"    json:"equipment_name"`
	Category         string  `gorm:"column:category"          json:"category"`
	TotalOrders      int64   `gorm:"column:total_orders"      json:"total_orders"`
	TotalAmount      float64 `gorm:"column:total_amount"      json:"total_amount"`
	MaintenanceCount int64   `gorm:"column:maintenance_count" json:"maintenance_count"`
}

func dateArgs(p Period) (string, string) {
	return p.Start.Format("2006-01-02"), p.End.Format("2006-01-02")
}

func queryAnnual(ctx context.Context, db *gorm.DB, p Period) ([]AnnualRow, error) {
	start, end := dateArgs(p)
	rows := []AnnualRow{}
	if err := db.WithContext(ctx).Raw(annualSQL, start, start, end, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("annual report query: %w", err)
	}
	return rows, nil
}

func queryMonthly(ctx context.Context, db *gorm.DB, p Period) ([]MonthlyRow, error) {
	start, end := dateArgs(p)
	rows := []MonthlyRow{}
	if err := db.WithContext(ctx).Raw(monthlySQL, start, end, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("monthly report query: %w", err)
	}
	return rows, nil
}
