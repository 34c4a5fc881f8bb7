package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	NextOrderNumber(ctx context.Context, storeID uuid.UUID) (int64, error)
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindOrderItem(ctx context.Context, itemID uuid.UUID) (*models.OrderItem, error)
	UpdateOrderItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error

	// AccumulateProducedApproved adds qty to the item's approved-produced
	// counter and flags it ready for packaging.
	AccumulateProducedApproved(ctx context.Context, itemID uuid.UUID, qty decimal.Decimal) error
	// AccumulatePackagedApproved adds qty to the item's approved-packaged counter.
	AccumulatePackagedApproved(ctx context.Context, itemID uuid.UUID, qty decimal.Decimal) error
}
