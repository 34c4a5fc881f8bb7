package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lucasferreira/fornada-backend/pkg/enums"
)

// Sale is the settlement record created once an order is fully packaged and
// approved. The unique index on OrderID enforces at most one sale per order.
type Sale struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID        `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_sales_order_id"`
	StoreID    uuid.UUID        `gorm:"column:store_id;type:uuid;not null"`
	ClientID   uuid.UUID        `gorm:"column:client_id;type:uuid;not null"`
	TotalCents int              `gorm:"column:total_cents;not null"`
	Status     enums.SaleStatus `gorm:"column:status;type:sale_status;not null;default:'pending'"`
	InvoicedAt *time.Time       `gorm:"column:invoiced_at"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
