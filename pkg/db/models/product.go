package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item; manufactured products carry recipe lines.
type Product struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID        uuid.UUID       `gorm:"column:store_id;type:uuid;not null"`
	SKU            string          `gorm:"column:sku;not null"`
	Name           string          `gorm:"column:name;not null"`
	Stock          decimal.Decimal `gorm:"column:stock;type:numeric(14,3);not null;default:0"`
	IsManufactured bool            `gorm:"column:is_manufactured;not null;default:false"`
	PriceCents     int             `gorm:"column:price_cents;not null"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	RecipeLines    []RecipeLine    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
