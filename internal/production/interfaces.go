package production

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

// Repository defines persistence operations for production entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.ProductionEntry) (*models.ProductionEntry, error)
	Find(ctx context.Context, id uuid.UUID) (*models.ProductionEntry, error)
	List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters EntryFilters) (*EntryList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountOpenByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int64, error)
}
