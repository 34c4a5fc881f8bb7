package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one product line within an order. Qty and TotalCents are
// reconciled downward when packaging approvals finalize a smaller quantity.
type OrderItem struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID             uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID           uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName         string          `gorm:"column:product_name;not null"`
	Qty                 decimal.Decimal `gorm:"column:qty;type:numeric(14,3);not null"`
	UnitPriceCents      int             `gorm:"column:unit_price_cents;not null"`
	TotalCents          int             `gorm:"column:total_cents;not null"`
	QtyProducedApproved decimal.Decimal `gorm:"column:qty_produced_approved;type:numeric(14,3);not null;default:0"`
	QtyPackagedApproved decimal.Decimal `gorm:"column:qty_packaged_approved;type:numeric(14,3);not null;default:0"`
	ReadyForPackaging   bool            `gorm:"column:ready_for_packaging;not null;default:false"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
