package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/pkg/enums"
)

// Vehicle is an inventory unit eligible for desking. Pricing is immutable on
// attached deals except through the explicit price-update path.
type Vehicle struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	VIN          string                 `gorm:"column:vin;not null;uniqueIndex"`
	Year         int                    `gorm:"column:year;not null"`
	Make         string                 `gorm:"column:make;not null"`
	Model        string                 `gorm:"column:model;not null"`
	Trim         *string                `gorm:"column:trim"`
	Condition    enums.VehicleCondition `gorm:"column:condition;type:text;not null"`
	Mileage      int                    `gorm:"column:mileage;not null;default:0"`
	MSRP         decimal.Decimal        `gorm:"column:msrp;type:numeric(12,2);not null"`
	InvoicePrice *decimal.Decimal       `gorm:"column:invoice_price;type:numeric(12,2)"`
	SellingPrice decimal.Decimal        `gorm:"column:selling_price;type:numeric(12,2);not null"`
	Features     pq.StringArray         `gorm:"column:features;type:text[];default:ARRAY[]::text[]"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
