package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/internal/inventory"
	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
	pkgerrors "github.com/lucasferreira/fornada-backend/pkg/errors"
	"github.com/lucasferreira/fornada-backend/pkg/metrics"
	"github.com/lucasferreira/fornada-backend/pkg/outbox"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// PackagingAugmenter lets production approval feed the packaging queue.
type PackagingAugmenter interface {
	FindByProduction(ctx context.Context, tx *gorm.DB, productionID uuid.UUID) (*models.PackagingEntry, error)
	Augment(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, qty decimal.Decimal) error
	Schedule(ctx context.Context, tx *gorm.DB, entry *models.PackagingEntry) (*models.PackagingEntry, error)
}

// OrderItemTracker resolves order context and records produced approvals.
type OrderItemTracker interface {
	ItemForCascade(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*models.OrderItem, error)
	OrderForCascade(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*models.Order, error)
	RecordProducedApproval(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty decimal.Decimal) error
}

// StockKeeper exposes the inventory primitives production depends on.
type StockKeeper interface {
	ProductForRouting(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error)
	RestockProduced(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) error
	DeductIngredients(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) ([]inventory.IngredientShortage, error)
}

// Service defines production entry operations.
type Service interface {
	Schedule(ctx context.Context, tx *gorm.DB, entry *models.ProductionEntry) (*models.ProductionEntry, error)
	CountOpenByOrderItem(ctx context.Context, tx *gorm.DB, orderItemID uuid.UUID) (int64, error)
	Create(ctx context.Context, input CreateEntryInput) (*models.ProductionEntry, []inventory.IngredientShortage, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ProductionEntry, error)
	List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters EntryFilters) (*EntryList, error)
	Start(ctx context.Context, input TransitionInput) error
	Complete(ctx context.Context, input CompleteInput) error
	Approve(ctx context.Context, input TransitionInput) error
}

type service struct {
	repo      Repository
	tx        txRunner
	outbox    outboxPublisher
	packaging PackagingAugmenter
	items     OrderItemTracker
	stock     StockKeeper
	workflow  *metrics.WorkflowMetrics
}

// NewService builds a production service with the required dependencies.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher, packaging PackagingAugmenter, items OrderItemTracker, stock StockKeeper, workflow *metrics.WorkflowMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("production repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if packaging == nil {
		return nil, fmt.Errorf("packaging augmenter required")
	}
	if items == nil {
		return nil, fmt.Errorf("order item tracker required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock keeper required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		outbox:    outbox,
		packaging: packaging,
		items:     items,
		stock:     stock,
		workflow:  workflow,
	}, nil
}

// Schedule creates an entry inside the caller's transaction. Used by order
// routing for shortfalls.
func (s *service) Schedule(ctx context.Context, tx *gorm.DB, entry *models.ProductionEntry) (*models.ProductionEntry, error) {
	if entry == nil || entry.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "production entry product required")
	}
	if !entry.QtyRequested.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested quantity must be positive")
	}
	if entry.Status == "" {
		entry.Status = enums.ProductionStatusPending
	}

	created, err := s.repo.WithTx(tx).Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create production entry")
	}
	return created, nil
}

// CountOpenByOrderItem reports how many entries for the item are still short
// of approval. Packaging consults it before closing out an order item.
func (s *service) CountOpenByOrderItem(ctx context.Context, tx *gorm.DB, orderItemID uuid.UUID) (int64, error) {
	count, err := s.repo.WithTx(tx).CountOpenByOrderItem(ctx, orderItemID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open production entries")
	}
	return count, nil
}

// Create registers internal production not tied to an order. Ingredients are
// consumed up front, the same as routed shortfalls; shortages are returned
// for the caller to surface.
func (s *service) Create(ctx context.Context, input CreateEntryInput) (*models.ProductionEntry, []inventory.IngredientShortage, error) {
	if input.StoreID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.QtyRequested.IsPositive() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "requested quantity must be positive")
	}

	var entry *models.ProductionEntry
	var shortages []inventory.IngredientShortage
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := s.stock.ProductForRouting(ctx, tx, input.ProductID)
		if err != nil {
			return err
		}
		if product.StoreID != input.StoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to store")
		}
		if !product.IsManufactured {
			return pkgerrors.New(pkgerrors.CodeValidation, "product is not manufactured")
		}

		entry, err = s.Schedule(ctx, tx, &models.ProductionEntry{
			StoreID:      input.StoreID,
			ProductID:    product.ID,
			QtyRequested: input.QtyRequested,
			Status:       enums.ProductionStatusPending,
		})
		if err != nil {
			return err
		}

		shortages, err = s.stock.DeductIngredients(ctx, tx, input.StoreID, product.ID, input.QtyRequested, entry.ID, input.ActorUserID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return entry, shortages, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ProductionEntry, error) {
	entry, err := s.repo.Find(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "production entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load production entry")
	}
	return entry, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters EntryFilters) (*EntryList, error) {
	list, err := s.repo.List(ctx, storeID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list production entries")
	}
	return list, nil
}

func (s *service) Start(ctx context.Context, input TransitionInput) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		entry, err := s.loadForTransition(ctx, tx, input, enums.ProductionStatusInProgress)
		if err != nil {
			return err
		}
		now := time.Now()
		updates := map[string]any{
			"status":     enums.ProductionStatusInProgress,
			"started_at": now,
		}
		if err := s.repo.WithTx(tx).Update(ctx, entry.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start production entry")
		}
		return nil
	})
}

func (s *service) Complete(ctx context.Context, input CompleteInput) error {
	if !input.QtyProduced.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "produced quantity must be positive")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		transition := TransitionInput{
			EntryID:      input.EntryID,
			ActorUserID:  input.ActorUserID,
			ActorStoreID: input.ActorStoreID,
			ActorRole:    input.ActorRole,
		}
		entry, err := s.loadForTransition(ctx, tx, transition, enums.ProductionStatusCompleted)
		if err != nil {
			return err
		}
		now := time.Now()
		updates := map[string]any{
			"status":       enums.ProductionStatusCompleted,
			"completed_at": now,
			"qty_produced": input.QtyProduced,
		}
		if err := s.repo.WithTx(tx).Update(ctx, entry.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete production entry")
		}
		return nil
	})
}

// Approve finalizes the produced quantity and runs the cascade: order-linked
// entries feed the packaging queue and the item's approval counters, internal
// entries restock the product. Any failure aborts the whole transition.
func (s *service) Approve(ctx context.Context, input TransitionInput) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		entry, err := s.loadForTransition(ctx, tx, input, enums.ProductionStatusApproved)
		if err != nil {
			return err
		}
		if !entry.QtyProduced.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "entry has no produced quantity")
		}

		now := time.Now()
		approver := input.ActorUserID
		updates := map[string]any{
			"status":      enums.ProductionStatusApproved,
			"approved_at": now,
			"approved_by": approver,
		}
		if err := s.repo.WithTx(tx).Update(ctx, entry.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve production entry")
		}

		if entry.OrderItemID != nil {
			if err := s.cascadeOrderLinked(ctx, tx, entry); err != nil {
				return err
			}
		} else {
			if err := s.stock.RestockProduced(ctx, tx, entry.StoreID, entry.ProductID, entry.QtyProduced, entry.ID, input.ActorUserID); err != nil {
				return err
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventProductionApproved,
			AggregateType: enums.AggregateProductionEntry,
			AggregateID:   entry.ID,
			Version:       1,
			Actor:         buildActor(input.ActorUserID, input.ActorStoreID, input.ActorRole),
			Data: ProductionApprovedEvent{
				EntryID:     entry.ID,
				ProductID:   entry.ProductID,
				OrderItemID: entry.OrderItemID,
				QtyProduced: entry.QtyProduced,
				Internal:    entry.OrderItemID == nil,
			},
		}
		return s.outbox.EmitIfNotExists(ctx, tx, event)
	})
	if err != nil {
		return err
	}
	s.workflow.IncApproval("production")
	return nil
}

// cascadeOrderLinked augments the packaging entry fed by this production run,
// creating it with the order context when none exists yet.
func (s *service) cascadeOrderLinked(ctx context.Context, tx *gorm.DB, entry *models.ProductionEntry) error {
	item, err := s.items.ItemForCascade(ctx, tx, *entry.OrderItemID)
	if err != nil {
		return err
	}

	existing, err := s.packaging.FindByProduction(ctx, tx, entry.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		if err := s.packaging.Augment(ctx, tx, existing.ID, entry.QtyProduced); err != nil {
			return err
		}
	} else {
		order, err := s.items.OrderForCascade(ctx, tx, item.OrderID)
		if err != nil {
			return err
		}
		productionID := entry.ID
		orderID := order.ID
		itemID := item.ID
		clientID := order.ClientID
		clientName := order.ClientName
		_, err = s.packaging.Schedule(ctx, tx, &models.PackagingEntry{
			StoreID:      entry.StoreID,
			ProductionID: &productionID,
			OrderID:      &orderID,
			OrderItemID:  &itemID,
			ClientID:     &clientID,
			ClientName:   &clientName,
			ProductID:    entry.ProductID,
			QtyToPackage: entry.QtyProduced,
			Status:       enums.PackagingStatusPending,
		})
		if err != nil {
			return err
		}
	}

	return s.items.RecordProducedApproval(ctx, tx, item.ID, entry.QtyProduced)
}

func (s *service) loadForTransition(ctx context.Context, tx *gorm.DB, input TransitionInput, target enums.ProductionStatus) (*models.ProductionEntry, error) {
	if input.EntryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActorStoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}

	entry, err := s.repo.WithTx(tx).Find(ctx, input.EntryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "production entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load production entry")
	}
	if entry.StoreID != input.ActorStoreID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "entry does not belong to store")
	}
	if !transitionAllowed(entry.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("production entry cannot move from %s to %s", entry.Status, target))
	}
	return entry, nil
}

// transitionAllowed is the single transition table for production entries.
func transitionAllowed(current, next enums.ProductionStatus) bool {
	switch next {
	case enums.ProductionStatusInProgress:
		return current == enums.ProductionStatusPending
	case enums.ProductionStatusCompleted:
		return current == enums.ProductionStatusInProgress
	case enums.ProductionStatusApproved:
		return current == enums.ProductionStatusCompleted
	default:
		return false
	}
}

func buildActor(userID, storeID uuid.UUID, role string) *outbox.ActorRef {
	store := storeID
	return &outbox.ActorRef{
		UserID:  userID,
		StoreID: &store,
		Role:    role,
	}
}
