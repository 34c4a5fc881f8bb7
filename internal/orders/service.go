package orders

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
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// StockKeeper exposes the inventory primitives routing depends on.
type StockKeeper interface {
	ProductForRouting(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error)
	ReserveStock(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) (bool, error)
	DeductIngredients(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) ([]inventory.IngredientShortage, error)
}

// ProductionScheduler creates production entries for routed shortfalls.
type ProductionScheduler interface {
	Schedule(ctx context.Context, tx *gorm.DB, entry *models.ProductionEntry) (*models.ProductionEntry, error)
}

// PackagingScheduler creates packaging entries for stock-covered quantities.
type PackagingScheduler interface {
	Schedule(ctx context.Context, tx *gorm.DB, entry *models.PackagingEntry) (*models.PackagingEntry, error)
}

// Service defines order-level operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
	Route(ctx context.Context, input RouteOrderInput) (*RouteResult, error)
	StartDelivery(ctx context.Context, input TransitionInput) error
	MarkDelivered(ctx context.Context, input TransitionInput) error
	Cancel(ctx context.Context, input TransitionInput) error

	// Transaction-scoped helpers consumed by the production and packaging
	// approval cascades.
	ItemForCascade(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*models.OrderItem, error)
	OrderForCascade(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*models.Order, error)
	RecordProducedApproval(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty decimal.Decimal) error
	RecordPackagedApproval(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty decimal.Decimal) error
	ReconcileItemQty(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, approvedQty decimal.Decimal) (bool, error)

	// Transaction-scoped helpers consumed by sale settlement.
	Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, totalCents int) error
	ClosePackagedUnsold(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
	ConfirmSale(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
}

type service struct {
	repo       Repository
	tx         txRunner
	outbox     outboxPublisher
	stock      StockKeeper
	production ProductionScheduler
	packaging  PackagingScheduler
	workflow   *metrics.WorkflowMetrics
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher, stock StockKeeper, production ProductionScheduler, packaging PackagingScheduler, workflow *metrics.WorkflowMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock keeper required")
	}
	if production == nil {
		return nil, fmt.Errorf("production scheduler required")
	}
	if packaging == nil {
		return nil, fmt.Errorf("packaging scheduler required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		outbox:     outbox,
		stock:      stock,
		production: production,
		packaging:  packaging,
		workflow:   workflow,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if input.ClientID == uuid.Nil || input.ClientName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product required")
		}
		if !item.Qty.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		number, err := repo.NextOrderNumber(ctx, input.StoreID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}

		candidate := &models.Order{
			StoreID:     input.StoreID,
			OrderNumber: number,
			ClientID:    input.ClientID,
			ClientName:  input.ClientName,
			Status:      enums.OrderStatusPending,
			Notes:       input.Notes,
		}

		total := 0
		for _, item := range input.Items {
			product, err := s.stock.ProductForRouting(ctx, tx, item.ProductID)
			if err != nil {
				return err
			}
			if product.StoreID != input.StoreID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to store")
			}
			if !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "product is inactive")
			}
			itemTotal := centsTotal(product.PriceCents, item.Qty)
			total += itemTotal
			candidate.Items = append(candidate.Items, models.OrderItem{
				ProductID:      product.ID,
				ProductName:    product.Name,
				Qty:            item.Qty,
				UnitPriceCents: product.PriceCents,
				TotalCents:     itemTotal,
			})
		}
		candidate.TotalCents = total

		order, err = repo.CreateOrder(ctx, candidate)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.ActorUserID, input.StoreID, input.ActorRole),
			Data: OrderCreatedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				ClientID:    order.ClientID,
				TotalCents:  order.TotalCents,
				ItemCount:   len(order.Items),
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	list, err := s.repo.ListOrders(ctx, storeID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// Route decides per item whether to fulfill from stock or send the shortfall
// to production, then aggregates the outcomes into the order status. The whole
// decision commits in one transaction; re-routing a routed order is rejected.
func (s *service) Route(ctx context.Context, input RouteOrderInput) (*RouteResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActorStoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}

	started := time.Now()
	var result *RouteResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.StoreID != input.ActorStoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to store")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already routed")
		}
		if len(order.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
		}

		anyPackaging := false
		anyProduction := false
		items := make([]ItemRouting, 0, len(order.Items))

		for i := range order.Items {
			item := &order.Items[i]
			routed, err := s.routeItem(ctx, tx, order, item, input.ActorUserID)
			if err != nil {
				return err
			}
			switch routed.Outcome {
			case ItemOutcomeFromStock:
				anyPackaging = true
			case ItemOutcomeToProduction:
				anyProduction = true
			case ItemOutcomeMixed:
				anyPackaging = true
				anyProduction = true
			}
			items = append(items, *routed)
		}

		status := order.Status
		switch {
		case anyPackaging:
			status = enums.OrderStatusInPackaging
		case anyProduction:
			status = enums.OrderStatusInProduction
		}

		if status != order.Status {
			now := time.Now()
			updates := map[string]any{
				"status":    status,
				"routed_at": now,
			}
			if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
			}
		}

		result = &RouteResult{
			OrderID: order.ID,
			Status:  status,
			Items:   items,
		}

		// Every item unfulfilled: nothing was scheduled, the order stays
		// pending and there is no routing to announce.
		if status == order.Status {
			return nil
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderRouted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.ActorUserID, input.ActorStoreID, input.ActorRole),
			Data: OrderRoutedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				Status:      status,
				Items:       items,
			},
		}
		return s.outbox.EmitIfNotExists(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	for _, item := range result.Items {
		s.workflow.IncRoutedItem(string(item.Outcome))
	}
	s.workflow.ObserveDuration("route_order", time.Since(started))
	return result, nil
}

// routeItem applies the per-item decision table: full stock, shortfall to
// production on manufactured products, or an unfulfilled dead end.
func (s *service) routeItem(ctx context.Context, tx *gorm.DB, order *models.Order, item *models.OrderItem, actorUserID uuid.UUID) (*ItemRouting, error) {
	routed := &ItemRouting{
		OrderItemID:     item.ID,
		ProductID:       item.ProductID,
		QtyFromStock:    decimal.Zero,
		QtyToProduction: decimal.Zero,
	}

	product, err := s.stock.ProductForRouting(ctx, tx, item.ProductID)
	if err != nil {
		return nil, err
	}

	if product.Stock.GreaterThanOrEqual(item.Qty) {
		ok, err := s.stock.ReserveStock(ctx, tx, order.StoreID, product.ID, item.Qty, item.ID, actorUserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock changed during routing, retry")
		}
		if _, err := s.schedulePackaging(ctx, tx, order, item, nil, item.Qty); err != nil {
			return nil, err
		}
		routed.Outcome = ItemOutcomeFromStock
		routed.QtyFromStock = item.Qty
		return routed, nil
	}

	if !product.IsManufactured {
		routed.Outcome = ItemOutcomeUnfulfilled
		routed.Message = "insufficient stock, manual replenishment required"
		return routed, nil
	}

	stockPortion := product.Stock
	shortfall := item.Qty.Sub(stockPortion)

	itemID := item.ID
	entry, err := s.production.Schedule(ctx, tx, &models.ProductionEntry{
		StoreID:      order.StoreID,
		OrderItemID:  &itemID,
		ProductID:    product.ID,
		QtyRequested: shortfall,
		Status:       enums.ProductionStatusPending,
	})
	if err != nil {
		return nil, err
	}

	// the on-hand portion is finished inventory; ingredients cover only the
	// quantity still to be manufactured
	shortages, err := s.stock.DeductIngredients(ctx, tx, order.StoreID, product.ID, shortfall, entry.ID, actorUserID)
	if err != nil {
		return nil, err
	}
	routed.Shortages = shortages

	if stockPortion.IsPositive() {
		ok, err := s.stock.ReserveStock(ctx, tx, order.StoreID, product.ID, stockPortion, item.ID, actorUserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock changed during routing, retry")
		}
		if _, err := s.schedulePackaging(ctx, tx, order, item, nil, stockPortion); err != nil {
			return nil, err
		}
		routed.Outcome = ItemOutcomeMixed
		routed.QtyFromStock = stockPortion
	} else {
		routed.Outcome = ItemOutcomeToProduction
	}
	routed.QtyToProduction = shortfall
	return routed, nil
}

func (s *service) schedulePackaging(ctx context.Context, tx *gorm.DB, order *models.Order, item *models.OrderItem, productionID *uuid.UUID, qty decimal.Decimal) (*models.PackagingEntry, error) {
	orderID := order.ID
	itemID := item.ID
	clientID := order.ClientID
	clientName := order.ClientName
	return s.packaging.Schedule(ctx, tx, &models.PackagingEntry{
		StoreID:      order.StoreID,
		ProductionID: productionID,
		OrderID:      &orderID,
		OrderItemID:  &itemID,
		ClientID:     &clientID,
		ClientName:   &clientName,
		ProductID:    item.ProductID,
		QtyToPackage: qty,
		Status:       enums.PackagingStatusPending,
	})
}

func (s *service) StartDelivery(ctx context.Context, input TransitionInput) error {
	return s.transition(ctx, input, enums.OrderStatusSaleConfirmed, enums.OrderStatusInDelivery, enums.EventOrderDeliveryStarted, nil)
}

func (s *service) MarkDelivered(ctx context.Context, input TransitionInput) error {
	now := time.Now()
	return s.transition(ctx, input, enums.OrderStatusInDelivery, enums.OrderStatusDelivered, enums.EventOrderDelivered, map[string]any{
		"delivered_at": now,
	})
}

func (s *service) Cancel(ctx context.Context, input TransitionInput) error {
	return s.transition(ctx, input, enums.OrderStatusPending, enums.OrderStatusCanceled, "", nil)
}

func (s *service) transition(ctx context.Context, input TransitionInput, from, to enums.OrderStatus, eventType enums.OutboxEventType, extraUpdates map[string]any) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActorStoreID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.StoreID != input.ActorStoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to store")
		}
		if order.Status == to {
			return nil
		}
		if order.Status != from {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order cannot move from %s to %s", order.Status, to))
		}

		updates := map[string]any{"status": to}
		for key, value := range extraUpdates {
			updates[key] = value
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		if eventType == "" {
			return nil
		}
		event := outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.ActorUserID, input.ActorStoreID, input.ActorRole),
			Data: map[string]any{
				"order_id": order.ID,
				"status":   to,
			},
		}
		return s.outbox.EmitIfNotExists(ctx, tx, event)
	})
}

func (s *service) ItemForCascade(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*models.OrderItem, error) {
	item, err := s.repo.WithTx(tx).FindOrderItem(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order item")
	}
	return item, nil
}

func (s *service) OrderForCascade(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.WithTx(tx).FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) RecordProducedApproval(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty decimal.Decimal) error {
	if err := s.repo.WithTx(tx).AccumulateProducedApproved(ctx, itemID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record produced approval")
	}
	return nil
}

func (s *service) RecordPackagedApproval(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty decimal.Decimal) error {
	if err := s.repo.WithTx(tx).AccumulatePackagedApproved(ctx, itemID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record packaged approval")
	}
	return nil
}

// ReconcileItemQty reduces the item's quantity and total to the approved
// quantity. It never raises the quantity; the bool reports whether a
// reduction was applied.
func (s *service) ReconcileItemQty(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, approvedQty decimal.Decimal) (bool, error) {
	repo := s.repo.WithTx(tx)
	item, err := repo.FindOrderItem(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order item")
	}
	if approvedQty.GreaterThanOrEqual(item.Qty) {
		return false, nil
	}

	updates := map[string]any{
		"qty":         approvedQty,
		"total_cents": centsTotal(item.UnitPriceCents, approvedQty),
	}
	if err := repo.UpdateOrderItem(ctx, item.ID, updates); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconcile order item")
	}
	return true, nil
}

// Release moves a fully packaged order to released_for_sale and freezes its
// total to what packaging actually approved.
func (s *service) Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, totalCents int) error {
	now := time.Now()
	return s.settleTransition(ctx, tx, orderID, enums.OrderStatusReleasedForSale, map[string]any{
		"status":      enums.OrderStatusReleasedForSale,
		"released_at": now,
		"total_cents": totalCents,
	})
}

// ClosePackagedUnsold parks an order whose packaging pipeline finished with
// nothing sellable. No sale record follows.
func (s *service) ClosePackagedUnsold(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	return s.settleTransition(ctx, tx, orderID, enums.OrderStatusPackaged, map[string]any{
		"status": enums.OrderStatusPackaged,
	})
}

// ConfirmSale moves a released order to sale_confirmed once its sale is
// invoiced.
func (s *service) ConfirmSale(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	repo := s.repo.WithTx(tx)
	order, err := repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status != enums.OrderStatusReleasedForSale {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order cannot move from %s to %s", order.Status, enums.OrderStatusSaleConfirmed))
	}
	updates := map[string]any{"status": enums.OrderStatusSaleConfirmed}
	if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm sale")
	}
	return nil
}

func (s *service) settleTransition(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, to enums.OrderStatus, updates map[string]any) error {
	repo := s.repo.WithTx(tx)
	order, err := repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	switch order.Status {
	case enums.OrderStatusInProduction, enums.OrderStatusInPackaging, enums.OrderStatusPackaged:
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order cannot move from %s to %s", order.Status, to))
	}
	if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return nil
}

func centsTotal(unitPriceCents int, qty decimal.Decimal) int {
	return int(decimal.NewFromInt(int64(unitPriceCents)).Mul(qty).Round(0).IntPart())
}

func buildActor(userID, storeID uuid.UUID, role string) *outbox.ActorRef {
	store := storeID
	return &outbox.ActorRef{
		UserID:  userID,
		StoreID: &store,
		Role:    role,
	}
}
