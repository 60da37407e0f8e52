package models

import "time"

type Equipment struct {
	EquipmentID     int64      `gorm:"column:equipment_id"     json:"equipment_id"`
	EquipmentName   string     `gorm:"column:equipment_name"   json:"equipment_name"`
	ModelNumber     *string    `gorm:"column:model_number"     json:"model_number"`
	Category        string     `gorm:"column:category"         json:"category"`
	Quantity        int        `gorm:"column:quantity"         json:"quantity"`
	StorageLocation *string    `gorm:"column:storage_location" json:"storage_location"`
	PurchaseDate    *time.Time `gorm:"column:purchase_date"    json:"purchase_date"`
	CompanyID       *int64     `gorm:"column:company_id"       json:"company_id"`
	CreatedAt       time.Time  `gorm:"column:created_at"       json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"       json:"updated_at"`
}

// Facility is an equipment row with the latest order the caller's company
// placed for it. Order fields are null when there is none.
type Facility struct {
	Equipment
	OrderID      *int64     `gorm:"column:order_id"      json:"order_id"`
	OrderStatus  *string    `gorm:"column:order_status"  json:"order_status"`
	OrderDate    *time.Time `gorm:"column:order_date"    json:"order_date"`
	DeliveryDate *time.Time `gorm:"column:delivery_date" json:"delivery_date"`
}

type MaintenanceReport struct {
	ReportID            int64      `gorm:"column:report_id"             json:"report_id"`
	EquipmentID         int64      `gorm:"column:equipment_id"          json:"equipment_id"`
	CompanyID           int64      `gorm:"column:company_id"            json:"company_id"`
	ReportDate          time.Time  `gorm:"column:report_date"           json:"report_date"`
	Description         string     `gorm:"column:description"           json:"description"`
	NextMaintenanceDate *time.Time `gorm:"column:next_maintenance_date" json:"next_maintenance_date"`
	CreatedAt           time.Time  `gorm:"column:created_at"            json:"created_at"`
}

type MaintenanceHistory struct {
	Equipment Equipment           `json:"equipment"`
	Reports   []MaintenanceReport `json:"reports"`
}

// NewMaintenanceReport is a validated report about to be stored. A nil
// NextMaintenanceDate is stored as NULL.
type NewMaintenanceReport struct {
	EquipmentID         int64
	ReportDate          time.Time
	Description         string
	NextMaintenanceDate *time.Time
}
