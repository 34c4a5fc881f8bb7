package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

// Repository defines persistence operations for products, recipes and the
// stock movement journal.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters ProductFilters) (*ProductList, error)
	FindRecipeLines(ctx context.Context, productID uuid.UUID) ([]models.RecipeLine, error)

	// DecrementStock subtracts qty in a single conditional statement and
	// reports whether the row qualified (stock >= qty).
	DecrementStock(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) (bool, error)
	// SetStockIfCurrent writes next only when the stored stock still equals
	// expected, reporting whether the swap applied.
	SetStockIfCurrent(ctx context.Context, productID uuid.UUID, expected, next decimal.Decimal) (bool, error)
	AddStock(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) error

	RecordMovement(ctx context.Context, movement *models.StockMovement) (*models.StockMovement, error)
	ListMovements(ctx context.Context, productID uuid.UUID, params pagination.Params) (*MovementList, error)
}
