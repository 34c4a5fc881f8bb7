package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasferreira/fornada-backend/pkg/enums"
)

// PackagingEntry tracks a request to package units of a product for shipment.
// ProductionID links entries fed by completed production; stock-direct entries
// instead carry the order/client context resolved at routing time.
type PackagingEntry struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID        uuid.UUID             `gorm:"column:store_id;type:uuid;not null"`
	ProductionID   *uuid.UUID            `gorm:"column:production_id;type:uuid"`
	OrderID        *uuid.UUID            `gorm:"column:order_id;type:uuid"`
	OrderItemID    *uuid.UUID            `gorm:"column:order_item_id;type:uuid"`
	ClientID       *uuid.UUID            `gorm:"column:client_id;type:uuid"`
	ClientName     *string               `gorm:"column:client_name"`
	ProductID      uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	QtyToPackage   decimal.Decimal       `gorm:"column:qty_to_package;type:numeric(14,3);not null"`
	QtyPackaged    decimal.Decimal       `gorm:"column:qty_packaged;type:numeric(14,3);not null;default:0"`
	Status         enums.PackagingStatus `gorm:"column:status;type:packaging_status;not null;default:'pending'"`
	QualityChecked bool                  `gorm:"column:quality_checked;not null;default:false"`
	PackedBy       *uuid.UUID            `gorm:"column:packed_by;type:uuid"`
	PackedAt       *time.Time            `gorm:"column:packed_at"`
	ApprovedBy     *uuid.UUID            `gorm:"column:approved_by;type:uuid"`
	ApprovedAt     *time.Time            `gorm:"column:approved_at"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
