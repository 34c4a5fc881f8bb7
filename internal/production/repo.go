package production

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a production repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.ProductionEntry) (*models.ProductionEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.ProductionEntry, error) {
	var entry models.ProductionEntry
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters EntryFilters) (*EntryList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ProductionEntry{}).
		Where("store_id = ?", storeID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ProductID != nil {
		query = query.Where("product_id = ?", *filters.ProductID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var entries []models.ProductionEntry
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	list := &EntryList{Entries: entries}
	if len(entries) > limit {
		list.Entries = entries[:limit]
		last := list.Entries[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductionEntry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CountOpenByOrderItem counts entries for the item that have not yet been
// approved. An approved entry hands its quantity to packaging and stops
// counting as open.
func (r *repository) CountOpenByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductionEntry{}).
		Where("order_item_id = ?", orderItemID).
		Where("status IN ?", []enums.ProductionStatus{
			enums.ProductionStatusPending,
			enums.ProductionStatusInProgress,
			enums.ProductionStatusCompleted,
		}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
