package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasferreira/fornada-backend/pkg/enums"
)

// StockMovement journals every stock mutation. QtyRequested and QtyApplied
// differ when a clamped deduction ran short of ingredients.
type StockMovement struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID               `gorm:"column:store_id;type:uuid;not null"`
	ProductID    uuid.UUID               `gorm:"column:product_id;type:uuid;not null"`
	Type         enums.StockMovementType `gorm:"column:type;type:stock_movement_type;not null"`
	QtyRequested decimal.Decimal         `gorm:"column:qty_requested;type:numeric(14,3);not null"`
	QtyApplied   decimal.Decimal         `gorm:"column:qty_applied;type:numeric(14,3);not null"`
	ReferenceID  *uuid.UUID              `gorm:"column:reference_id;type:uuid"`
	ActorUserID  *uuid.UUID              `gorm:"column:actor_user_id;type:uuid"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
}
