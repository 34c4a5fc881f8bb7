package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasferreira/fornada-backend/pkg/enums"
)

// ProductionEntry tracks a request to manufacture units of a product.
// A nil OrderItemID marks internal production not tied to a sale.
type ProductionEntry struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID              `gorm:"column:store_id;type:uuid;not null"`
	OrderItemID  *uuid.UUID             `gorm:"column:order_item_id;type:uuid"`
	ProductID    uuid.UUID              `gorm:"column:product_id;type:uuid;not null"`
	QtyRequested decimal.Decimal        `gorm:"column:qty_requested;type:numeric(14,3);not null"`
	QtyProduced  decimal.Decimal        `gorm:"column:qty_produced;type:numeric(14,3);not null;default:0"`
	Status       enums.ProductionStatus `gorm:"column:status;type:production_status;not null;default:'pending'"`
	StartedAt    *time.Time             `gorm:"column:started_at"`
	CompletedAt  *time.Time             `gorm:"column:completed_at"`
	ApprovedAt   *time.Time             `gorm:"column:approved_at"`
	ApprovedBy   *uuid.UUID             `gorm:"column:approved_by;type:uuid"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
