package packaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a packaging repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.PackagingEntry) (*models.PackagingEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.PackagingEntry, error) {
	var entry models.PackagingEntry
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindOpenByProductionID returns the still-open entry fed by the production
// run, if any. Approved and rejected entries are closed and never augmented.
func (r *repository) FindOpenByProductionID(ctx context.Context, productionID uuid.UUID) (*models.PackagingEntry, error) {
	var entry models.PackagingEntry
	err := r.db.WithContext(ctx).
		Where("production_id = ?", productionID).
		Where("status IN ?", []enums.PackagingStatus{
			enums.PackagingStatusPending,
			enums.PackagingStatusInProgress,
		}).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters EntryFilters) (*EntryList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PackagingEntry{}).
		Where("store_id = ?", storeID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ProductID != nil {
		query = query.Where("product_id = ?", *filters.ProductID)
	}
	if filters.OrderID != nil {
		query = query.Where("order_id = ?", *filters.OrderID)
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
	var entries []models.PackagingEntry
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
		Model(&models.PackagingEntry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) AddQtyToPackage(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	return r.db.WithContext(ctx).Exec(
		"UPDATE packaging_entries SET qty_to_package = qty_to_package + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		qty, id,
	).Error
}

func (r *repository) CountOpenByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PackagingEntry{}).
		Where("order_item_id = ?", orderItemID).
		Where("status IN ?", []enums.PackagingStatus{
			enums.PackagingStatusPending,
			enums.PackagingStatusInProgress,
			enums.PackagingStatusCompleted,
		}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
