package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/pkg/db"
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

// OrderReleaser exposes the order-side settlement transitions.
type OrderReleaser interface {
	OrderForCascade(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*models.Order, error)
	Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, totalCents int) error
	ClosePackagedUnsold(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
	ConfirmSale(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
}

// Service defines sale settlement operations.
type Service interface {
	TrySettleOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, actor *outbox.ActorRef) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	GetByOrder(ctx context.Context, orderID uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters SaleFilters) (*SaleList, error)
	Invoice(ctx context.Context, input InvoiceInput) error
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	orders   OrderReleaser
	workflow *metrics.WorkflowMetrics
}

// NewService builds a sales service with the required dependencies.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher, orders OrderReleaser, workflow *metrics.WorkflowMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order releaser required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   outbox,
		orders:   orders,
		workflow: workflow,
	}, nil
}

// TrySettleOrder settles the order into a sale once every item's packaged
// approvals cover its quantity. It runs inside the caller's transaction and
// reports whether a sale was created. The unique index on sales.order_id
// backstops concurrent settlements.
func (s *service) TrySettleOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, actor *outbox.ActorRef) (bool, error) {
	order, err := s.orders.OrderForCascade(ctx, tx, orderID)
	if err != nil {
		return false, err
	}
	if order.Status != enums.OrderStatusInProduction && order.Status != enums.OrderStatusInPackaging {
		return false, nil
	}

	total := 0
	for _, item := range order.Items {
		if item.QtyPackagedApproved.LessThan(item.Qty) {
			return false, nil
		}
		total += item.TotalCents
	}

	if total == 0 {
		// Everything was rejected or reconciled away. Close the order out
		// without a sale.
		if err := s.orders.ClosePackagedUnsold(ctx, tx, order.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.orders.Release(ctx, tx, order.ID, total); err != nil {
		return false, err
	}

	sale := &models.Sale{
		OrderID:    order.ID,
		StoreID:    order.StoreID,
		ClientID:   order.ClientID,
		TotalCents: total,
		Status:     enums.SaleStatusPending,
	}
	if _, err := s.repo.WithTx(tx).Create(ctx, sale); err != nil {
		if db.IsUniqueViolation(err, "ux_sales_order_id") {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sale")
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventSaleCreated,
		AggregateType: enums.AggregateSale,
		AggregateID:   sale.ID,
		Version:       1,
		Actor:         actor,
		Data: SaleCreatedEvent{
			SaleID:     sale.ID,
			OrderID:    order.ID,
			ClientID:   order.ClientID,
			TotalCents: total,
		},
	}
	if err := s.outbox.EmitIfNotExists(ctx, tx, event); err != nil {
		return false, err
	}

	s.workflow.IncSettlement()
	return true, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.Find(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	return sale, nil
}

func (s *service) GetByOrder(ctx context.Context, orderID uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	return sale, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters SaleFilters) (*SaleList, error) {
	list, err := s.repo.List(ctx, storeID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	return list, nil
}

// Invoice marks the sale invoiced and confirms the order.
func (s *service) Invoice(ctx context.Context, input InvoiceInput) error {
	if input.SaleID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale id required")
	}
	if input.ActorUserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActorStoreID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		sale, err := repo.Find(ctx, input.SaleID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
		}
		if sale.StoreID != input.ActorStoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "sale does not belong to store")
		}
		if sale.Status != enums.SaleStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "sale already invoiced")
		}

		now := time.Now()
		updates := map[string]any{
			"status":      enums.SaleStatusInvoiced,
			"invoiced_at": now,
		}
		if err := repo.Update(ctx, sale.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invoice sale")
		}

		if err := s.orders.ConfirmSale(ctx, tx, sale.OrderID); err != nil {
			return err
		}

		store := input.ActorStoreID
		event := outbox.DomainEvent{
			EventType:     enums.EventSaleInvoiced,
			AggregateType: enums.AggregateSale,
			AggregateID:   sale.ID,
			Version:       1,
			Actor: &outbox.ActorRef{
				UserID:  input.ActorUserID,
				StoreID: &store,
				Role:    input.ActorRole,
			},
			Data: SaleInvoicedEvent{
				SaleID:     sale.ID,
				OrderID:    sale.OrderID,
				TotalCents: sale.TotalCents,
			},
		}
		return s.outbox.EmitIfNotExists(ctx, tx, event)
	})
}
