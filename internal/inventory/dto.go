package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
)

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	IsManufactured *bool
	ActiveOnly     bool
	Query          string
}

// ProductList wraps the paginated products plus the next page cursor.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// MovementList wraps paginated stock movements plus the next cursor.
type MovementList struct {
	Movements  []models.StockMovement `json:"movements"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// RecipeLineInput declares one ingredient requirement on product creation.
type RecipeLineInput struct {
	IngredientID uuid.UUID
	QtyPerUnit   decimal.Decimal
}

// CreateProductInput carries the fields accepted when registering a product.
type CreateProductInput struct {
	StoreID        uuid.UUID
	SKU            string
	Name           string
	Stock          decimal.Decimal
	IsManufactured bool
	PriceCents     int
	RecipeLines    []RecipeLineInput
}

// AdjustStockInput requests a manual stock correction. Negative qty removes stock.
type AdjustStockInput struct {
	ProductID   uuid.UUID
	Qty         decimal.Decimal
	Reason      string
	ActorUserID uuid.UUID
	ActorRole   string
}

// IngredientShortage reports a clamped deduction where the recorded consumption
// fell short of the recipe requirement.
type IngredientShortage struct {
	IngredientID uuid.UUID       `json:"ingredient_id"`
	QtyRequested decimal.Decimal `json:"qty_requested"`
	QtyApplied   decimal.Decimal `json:"qty_applied"`
}
