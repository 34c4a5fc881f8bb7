package packaging

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

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

// OrderItemTracker records packaged approvals against the order item and
// reconciles its quantity when the packaging pipeline under-delivers.
type OrderItemTracker interface {
	ItemForCascade(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*models.OrderItem, error)
	RecordPackagedApproval(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty decimal.Decimal) error
	ReconcileItemQty(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, approvedQty decimal.Decimal) (bool, error)
}

// StockReturner puts rejected stock-direct quantities back on the shelf.
type StockReturner interface {
	ReturnStock(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) error
}

// SaleSettler attempts to settle the order once packaging has caught up.
type SaleSettler interface {
	TrySettleOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, actor *outbox.ActorRef) (bool, error)
}

// ProductionBacklog reports production entries still owed to an order item.
// A mixed-routed item stays open until its production side is approved too.
type ProductionBacklog interface {
	CountOpenByOrderItem(ctx context.Context, tx *gorm.DB, orderItemID uuid.UUID) (int64, error)
}

// Service defines packaging entry operations.
type Service interface {
	Schedule(ctx context.Context, tx *gorm.DB, entry *models.PackagingEntry) (*models.PackagingEntry, error)
	FindByProduction(ctx context.Context, tx *gorm.DB, productionID uuid.UUID) (*models.PackagingEntry, error)
	Augment(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, qty decimal.Decimal) error
	Get(ctx context.Context, id uuid.UUID) (*models.PackagingEntry, error)
	List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters EntryFilters) (*EntryList, error)
	Start(ctx context.Context, input TransitionInput) error
	Complete(ctx context.Context, input CompleteInput) error
	Approve(ctx context.Context, input TransitionInput) error
	Reject(ctx context.Context, input TransitionInput) error
}

type service struct {
	repo       Repository
	tx         txRunner
	outbox     outboxPublisher
	items      OrderItemTracker
	stock      StockReturner
	sales      SaleSettler
	production ProductionBacklog
	workflow   *metrics.WorkflowMetrics
}

// NewService builds a packaging service with the required dependencies.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher, items OrderItemTracker, stock StockReturner, sales SaleSettler, production ProductionBacklog, workflow *metrics.WorkflowMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("packaging repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if items == nil {
		return nil, fmt.Errorf("order item tracker required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock returner required")
	}
	if sales == nil {
		return nil, fmt.Errorf("sale settler required")
	}
	if production == nil {
		return nil, fmt.Errorf("production backlog required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		outbox:     outbox,
		items:      items,
		stock:      stock,
		sales:      sales,
		production: production,
		workflow:   workflow,
	}, nil
}

// Schedule creates an entry inside the caller's transaction. Used by order
// routing for stock-covered quantities and by production approval.
func (s *service) Schedule(ctx context.Context, tx *gorm.DB, entry *models.PackagingEntry) (*models.PackagingEntry, error) {
	if entry == nil || entry.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "packaging entry product required")
	}
	if !entry.QtyToPackage.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity to package must be positive")
	}
	if entry.Status == "" {
		entry.Status = enums.PackagingStatusPending
	}

	created, err := s.repo.WithTx(tx).Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create packaging entry")
	}
	return created, nil
}

// FindByProduction returns the open entry fed by the production run, or nil
// when none exists. Closed entries are never returned; an approval that lands
// after its packaging entry closed schedules a fresh one.
func (s *service) FindByProduction(ctx context.Context, tx *gorm.DB, productionID uuid.UUID) (*models.PackagingEntry, error) {
	entry, err := s.repo.WithTx(tx).FindOpenByProductionID(ctx, productionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find packaging entry by production")
	}
	return entry, nil
}

// Augment adds produced quantity to an open entry.
func (s *service) Augment(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "augment quantity must be positive")
	}
	if err := s.repo.WithTx(tx).AddQtyToPackage(ctx, entryID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "augment packaging entry")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.PackagingEntry, error) {
	entry, err := s.repo.Find(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "packaging entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load packaging entry")
	}
	return entry, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters EntryFilters) (*EntryList, error) {
	list, err := s.repo.List(ctx, storeID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list packaging entries")
	}
	return list, nil
}

func (s *service) Start(ctx context.Context, input TransitionInput) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		entry, err := s.loadForTransition(ctx, tx, input, enums.PackagingStatusInProgress)
		if err != nil {
			return err
		}
		now := time.Now()
		packer := input.ActorUserID
		updates := map[string]any{
			"status":    enums.PackagingStatusInProgress,
			"packed_by": packer,
			"packed_at": now,
		}
		if err := s.repo.WithTx(tx).Update(ctx, entry.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start packaging entry")
		}
		return nil
	})
}

func (s *service) Complete(ctx context.Context, input CompleteInput) error {
	if !input.QtyPackaged.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "packaged quantity must be positive")
	}
	if !input.QualityChecked {
		return pkgerrors.New(pkgerrors.CodeValidation, "quality check required before completion")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		transition := TransitionInput{
			EntryID:      input.EntryID,
			ActorUserID:  input.ActorUserID,
			ActorStoreID: input.ActorStoreID,
			ActorRole:    input.ActorRole,
		}
		entry, err := s.loadForTransition(ctx, tx, transition, enums.PackagingStatusCompleted)
		if err != nil {
			return err
		}
		if input.QtyPackaged.GreaterThan(entry.QtyToPackage) {
			return pkgerrors.New(pkgerrors.CodeValidation, "packaged quantity exceeds quantity to package")
		}
		updates := map[string]any{
			"status":          enums.PackagingStatusCompleted,
			"qty_packaged":    input.QtyPackaged,
			"quality_checked": true,
		}
		if err := s.repo.WithTx(tx).Update(ctx, entry.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete packaging entry")
		}
		return nil
	})
}

// Approve closes the entry and runs the cascade: the packaged quantity is
// recorded on the order item and, once the item has no open entries left, the
// item is reconciled down to what was actually approved and the order is
// offered for settlement.
func (s *service) Approve(ctx context.Context, input TransitionInput) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		entry, err := s.loadForTransition(ctx, tx, input, enums.PackagingStatusApproved)
		if err != nil {
			return err
		}
		if !entry.QtyPackaged.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "entry has no packaged quantity")
		}

		now := time.Now()
		approver := input.ActorUserID
		updates := map[string]any{
			"status":      enums.PackagingStatusApproved,
			"approved_at": now,
			"approved_by": approver,
		}
		if err := s.repo.WithTx(tx).Update(ctx, entry.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve packaging entry")
		}

		settled := false
		if entry.OrderItemID != nil {
			if err := s.items.RecordPackagedApproval(ctx, tx, *entry.OrderItemID, entry.QtyPackaged); err != nil {
				return err
			}
			settled, err = s.cascadeItemClosed(ctx, tx, entry, input)
			if err != nil {
				return err
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventPackagingApproved,
			AggregateType: enums.AggregatePackagingEntry,
			AggregateID:   entry.ID,
			Version:       1,
			Actor:         buildActor(input.ActorUserID, input.ActorStoreID, input.ActorRole),
			Data: PackagingApprovedEvent{
				EntryID:      entry.ID,
				ProductID:    entry.ProductID,
				OrderItemID:  entry.OrderItemID,
				QtyPackaged:  entry.QtyPackaged,
				OrderSettled: settled,
			},
		}
		return s.outbox.EmitIfNotExists(ctx, tx, event)
	})
	if err != nil {
		return err
	}
	s.workflow.IncApproval("packaging")
	return nil
}

// Reject closes the entry without counting its quantity. Stock-direct entries
// put the reserved quantity back on the shelf; production-fed rejects leave
// stock untouched, the goods never came from it.
func (s *service) Reject(ctx context.Context, input TransitionInput) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		entry, err := s.loadForTransition(ctx, tx, input, enums.PackagingStatusRejected)
		if err != nil {
			return err
		}

		updates := map[string]any{
			"status": enums.PackagingStatusRejected,
		}
		if err := s.repo.WithTx(tx).Update(ctx, entry.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject packaging entry")
		}

		stockReturned := false
		if entry.ProductionID == nil && entry.OrderItemID != nil {
			err := s.stock.ReturnStock(ctx, tx, entry.StoreID, entry.ProductID, entry.QtyToPackage, entry.ID, input.ActorUserID)
			if err != nil {
				return err
			}
			stockReturned = true
		}
		if entry.OrderItemID != nil {
			if _, err := s.cascadeItemClosed(ctx, tx, entry, input); err != nil {
				return err
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventPackagingRejected,
			AggregateType: enums.AggregatePackagingEntry,
			AggregateID:   entry.ID,
			Version:       1,
			Actor:         buildActor(input.ActorUserID, input.ActorStoreID, input.ActorRole),
			Data: PackagingRejectedEvent{
				EntryID:       entry.ID,
				ProductID:     entry.ProductID,
				OrderItemID:   entry.OrderItemID,
				QtyToPackage:  entry.QtyToPackage,
				StockReturned: stockReturned,
			},
		}
		return s.outbox.EmitIfNotExists(ctx, tx, event)
	})
}

// cascadeItemClosed runs once an entry closes. When the item has no open
// entries left, on either the packaging or the production side, its quantity
// is reconciled to the approved total and the order is offered for settlement.
func (s *service) cascadeItemClosed(ctx context.Context, tx *gorm.DB, entry *models.PackagingEntry, input TransitionInput) (bool, error) {
	open, err := s.repo.WithTx(tx).CountOpenByOrderItem(ctx, *entry.OrderItemID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open packaging entries")
	}
	if open > 0 {
		return false, nil
	}

	// A non-approved production entry will still feed the packaging queue
	// for this item; closing the item now would settle the order short.
	pending, err := s.production.CountOpenByOrderItem(ctx, tx, *entry.OrderItemID)
	if err != nil {
		return false, err
	}
	if pending > 0 {
		return false, nil
	}

	item, err := s.items.ItemForCascade(ctx, tx, *entry.OrderItemID)
	if err != nil {
		return false, err
	}
	if item.QtyPackagedApproved.LessThan(item.Qty) {
		if _, err := s.items.ReconcileItemQty(ctx, tx, item.ID, item.QtyPackagedApproved); err != nil {
			return false, err
		}
	}

	if entry.OrderID == nil {
		return false, nil
	}
	settled, err := s.sales.TrySettleOrder(ctx, tx, *entry.OrderID, buildActor(input.ActorUserID, input.ActorStoreID, input.ActorRole))
	if err != nil {
		return false, err
	}
	return settled, nil
}

func (s *service) loadForTransition(ctx context.Context, tx *gorm.DB, input TransitionInput, target enums.PackagingStatus) (*models.PackagingEntry, error) {
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
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "packaging entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load packaging entry")
	}
	if entry.StoreID != input.ActorStoreID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "entry does not belong to store")
	}
	if !transitionAllowed(entry.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("packaging entry cannot move from %s to %s", entry.Status, target))
	}
	return entry, nil
}

// transitionAllowed is the single transition table for packaging entries.
func transitionAllowed(current, next enums.PackagingStatus) bool {
	switch next {
	case enums.PackagingStatusInProgress:
		return current == enums.PackagingStatusPending
	case enums.PackagingStatusCompleted:
		return current == enums.PackagingStatusInProgress
	case enums.PackagingStatusApproved:
		return current == enums.PackagingStatusCompleted
	case enums.PackagingStatusRejected:
		return current == enums.PackagingStatusCompleted
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
