package sales

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

// Repository defines persistence operations for sales.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sale *models.Sale) (*models.Sale, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters SaleFilters) (*SaleList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
