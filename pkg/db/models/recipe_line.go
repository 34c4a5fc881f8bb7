package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeLine declares how much of an ingredient one unit of a product consumes.
type RecipeLine struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	IngredientID uuid.UUID       `gorm:"column:ingredient_id;type:uuid;not null"`
	QtyPerUnit   decimal.Decimal `gorm:"column:qty_per_unit;type:numeric(14,4);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
