package models

import (
	"time"

	"gorm.io/gorm"
)

type Company struct {
	CompanyID     int64     `gorm:"column:company_id;primaryKey;autoIncrement" json:"company_id"`
	CompanyName   string    `gorm:"column:company_name;not null"               json:"company_name"`
	ContactPerson *string   `gorm:"column:contact_person"                      json:"contact_person"`
	Phone         *string   `gorm:"column:phone"                               json:"phone"`
	Email         *string   `gorm:"column:email"                               json:"email"`
	CreatedAt     time.Time `gorm:"column:created_at"                          json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"                          json:"updated_at"`
}

type User struct {
	UserID    int64     `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Username  string    `gorm:"column:username;not null;uniqueIndex"    json:"username"`
	Email     *string   `gorm:"column:email"                            json:"email"`
	Role      string    `gorm:"column:role;not null;default:staff"      json:"role"`
	CompanyID *int64    `gorm:"column:company_id"                       json:"company_id"`
	CreatedAt time.Time `gorm:"column:created_at"                       json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"                       json:"updated_at"`
}

// Equipment is soft deleted: rows with deleted_at set are invisible to every
// query that goes through the model.
type Equipment struct {
	EquipmentID     int64          `gorm:"column:equipment_id;primaryKey;autoIncrement" json:"equipment_id"`
	EquipmentName   string         `gorm:"column:equipment_name;not null"               json:"equipment_name"`
	ModelNumber     *string        `gorm:"column:model_number"                          json:"model_number"`
	Category        string         `gorm:"column:category;not null"                     json:"category"`
	Quantity        int            `gorm:"column:quantity;not null"                     json:"quantity"`
	StorageLocation *string        `gorm:"column:storage_location"                      json:"storage_location"`
	PurchaseDate    *time.Time     `gorm:"column:purchase_date;type:date"               json:"purchase_date"`
	CompanyID       *int64         `gorm:"column:company_id"                            json:"company_id"`
	CreatedAt       time.Time      `gorm:"column:created_at"                            json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"                            json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"                      json:"-"`
}

type Order struct {
	OrderID      int64      `gorm:"column:order_id;primaryKey;autoIncrement" json:"order_id"`
	UserID       int64      `gorm:"column:user_id;not null"                  json:"user_id"`
	CompanyID    int64      `gorm:"column:company_id;not null"               json:"company_id"`
	Status       string     `gorm:"column:status;not null;default:pending"   json:"status"`
	OrderDate    time.Time  `gorm:"column:order_date;type:date"              json:"order_date"`
	DeliveryDate *time.Time `gorm:"column:delivery_date;type:date"           json:"delivery_date"`
	TotalAmount  float64    `gorm:"column:total_amount;not null"             json:"total_amount"`
	Notes        *string    `gorm:"column:notes"                             json:"notes"`
	CreatedAt    time.Time  `gorm:"column:created_at"                        json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"                        json:"updated_at"`
}

func (Company) TableName() string   { return "companies" }
func (User) TableName() string      { return "users" }
func (Equipment) TableName() string { return "equipment" }
func (Order) TableName() string     { return "orders" }

// OrderSummary is an order with the names staff screens display next to it.
type OrderSummary struct {
	Order
	Username    string `gorm:"column:username"     json:"username"`
	CompanyName string `gorm:"column:company_name" json:"company_name"`
}
