package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

var (
	annualHeader = []string{
		"equipment_id", "equipment_name", "category", "years_since_purchase",
		"total_orders_year", "total_amount_year", "total_maintenance_year", "avg_maintenance_interval_days",
	}
	monthlyHeader = []string{
		"equipment_id", "equipment_name", "category", "total_orders", "total_amount", "maintenance_count",
	}
)

// EncodeCSV renders header and records as RFC 4180 CSV. No records yields an
// empty body, header omitted.
func EncodeCSV(header []string, records [][]string) ([]byte, error) {
	if len(records) == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("csv: header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("csv: rows: %w", err)
	}
	return buf.Bytes(), nil
}

func (r AnnualRow) record() []string {
	return []string{
		strconv.FormatInt(r.EquipmentID, 10),
		r.EquipmentName,
		r.Category,
		optInt(r.YearsSincePurchase),
		strconv.FormatInt(r.TotalOrdersYear, 10),
		money(r.TotalAmountYear),
		strconv.FormatInt(r.TotalMaintenanceYear, 10),
		optFloat(r.AvgMaintenanceIntervalDays),
	}
}

func (r MonthlyRow) record() []string {
	return []string{
		strconv.FormatInt(r.EquipmentID, 10),
		r.EquipmentName,
		r.Category,
		strconv.FormatInt(r.TotalOrders, 10),
		money(r.TotalAmount),
		strconv.FormatInt(r.MaintenanceCount, 10),
	}
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
