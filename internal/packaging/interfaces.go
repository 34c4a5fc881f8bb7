package packaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

// Repository defines persistence operations for packaging entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.PackagingEntry) (*models.PackagingEntry, error)
	Find(ctx context.Context, id uuid.UUID) (*models.PackagingEntry, error)
	FindOpenByProductionID(ctx context.Context, productionID uuid.UUID) (*models.PackagingEntry, error)
	List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters EntryFilters) (*EntryList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	AddQtyToPackage(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error
	CountOpenByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int64, error)
}
