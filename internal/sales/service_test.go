package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
	pkgerrors "github.com/lucasferreira/fornada-backend/pkg/errors"
	"github.com/lucasferreira/fornada-backend/pkg/outbox"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

type stubSalesRepo struct {
	sales   map[uuid.UUID]*models.Sale
	byOrder map[uuid.UUID]uuid.UUID
}

func newStubSalesRepo() *stubSalesRepo {
	return &stubSalesRepo{
		sales:   make(map[uuid.UUID]*models.Sale),
		byOrder: make(map[uuid.UUID]uuid.UUID),
	}
}

func (s *stubSalesRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubSalesRepo) Create(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if _, exists := s.byOrder[sale.OrderID]; exists {
		return nil, errors.New(`duplicate key value violates unique constraint "ux_sales_order_id"`)
	}
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	s.sales[sale.ID] = sale
	s.byOrder[sale.OrderID] = sale.ID
	return sale, nil
}

func (s *stubSalesRepo) Find(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, ok := s.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *sale
	return &copied, nil
}

func (s *stubSalesRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Sale, error) {
	id, ok := s.byOrder[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s.Find(ctx, id)
}

func (s *stubSalesRepo) List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters SaleFilters) (*SaleList, error) {
	panic("not implemented")
}

func (s *stubSalesRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	sale, ok := s.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"].(enums.SaleStatus); ok {
		sale.Status = v
	}
	return nil
}

type stubOrderReleaser struct {
	orders    map[uuid.UUID]*models.Order
	released  []int
	closed    []uuid.UUID
	confirmed []uuid.UUID
}

func newStubOrderReleaser() *stubOrderReleaser {
	return &stubOrderReleaser{orders: make(map[uuid.UUID]*models.Order)}
}

func (s *stubOrderReleaser) OrderForCascade(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *stubOrderReleaser) Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, totalCents int) error {
	order, ok := s.orders[orderID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	order.Status = enums.OrderStatusReleasedForSale
	order.TotalCents = totalCents
	s.released = append(s.released, totalCents)
	return nil
}

func (s *stubOrderReleaser) ClosePackagedUnsold(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	order, ok := s.orders[orderID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	order.Status = enums.OrderStatusPackaged
	s.closed = append(s.closed, orderID)
	return nil
}

func (s *stubOrderReleaser) ConfirmSale(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	order, ok := s.orders[orderID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	order.Status = enums.OrderStatusSaleConfirmed
	s.confirmed = append(s.confirmed, orderID)
	return nil
}

type stubSalesOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubSalesOutbox) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type salesFixture struct {
	repo    *stubSalesRepo
	orders  *stubOrderReleaser
	outbox  *stubSalesOutbox
	svc     Service
	storeID uuid.UUID
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	f := &salesFixture{
		repo:    newStubSalesRepo(),
		orders:  newStubOrderReleaser(),
		outbox:  &stubSalesOutbox{},
		storeID: uuid.New(),
	}
	svc, err := NewService(f.repo, stubTxRunner{}, f.outbox, f.orders, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.svc = svc
	return f
}

type itemSpec struct {
	qty        string
	approved   string
	totalCents int
}

func (f *salesFixture) addOrder(status enums.OrderStatus, specs ...itemSpec) *models.Order {
	order := &models.Order{
		ID:         uuid.New(),
		StoreID:    f.storeID,
		ClientID:   uuid.New(),
		ClientName: "Padaria Central",
		Status:     status,
	}
	for _, spec := range specs {
		order.Items = append(order.Items, models.OrderItem{
			ID:                  uuid.New(),
			OrderID:             order.ID,
			Qty:                 decimal.RequireFromString(spec.qty),
			QtyPackagedApproved: decimal.RequireFromString(spec.approved),
			TotalCents:          spec.totalCents,
		})
	}
	f.orders.orders[order.ID] = order
	return order
}

func actorFor(storeID uuid.UUID) *outbox.ActorRef {
	store := storeID
	return &outbox.ActorRef{UserID: uuid.New(), StoreID: &store, Role: "manager"}
}

func TestTrySettleOrderCreatesSale(t *testing.T) {
	f := newSalesFixture(t)
	order := f.addOrder(enums.OrderStatusInPackaging,
		itemSpec{qty: "3", approved: "3", totalCents: 2400},
		itemSpec{qty: "1.5", approved: "1.5", totalCents: 3750},
	)

	settled, err := f.svc.TrySettleOrder(context.Background(), nil, order.ID, actorFor(f.storeID))
	if err != nil {
		t.Fatalf("TrySettleOrder: %v", err)
	}
	if !settled {
		t.Fatal("expected the order to settle")
	}

	if order.Status != enums.OrderStatusReleasedForSale {
		t.Errorf("order status = %s, want released_for_sale", order.Status)
	}
	if order.TotalCents != 6150 {
		t.Errorf("order total = %d, want 6150", order.TotalCents)
	}
	sale, err := f.repo.FindByOrderID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("sale not created: %v", err)
	}
	if sale.TotalCents != 6150 || sale.Status != enums.SaleStatusPending {
		t.Errorf("sale = %+v", sale)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventSaleCreated {
		t.Fatalf("expected sale_created event, got %v", f.outbox.events)
	}
}

func TestTrySettleOrderWaitsForAllItems(t *testing.T) {
	f := newSalesFixture(t)
	order := f.addOrder(enums.OrderStatusInPackaging,
		itemSpec{qty: "3", approved: "3", totalCents: 2400},
		itemSpec{qty: "5", approved: "2", totalCents: 4000},
	)

	settled, err := f.svc.TrySettleOrder(context.Background(), nil, order.ID, actorFor(f.storeID))
	if err != nil {
		t.Fatalf("TrySettleOrder: %v", err)
	}
	if settled {
		t.Fatal("order must not settle while an item is short")
	}
	if len(f.repo.sales) != 0 {
		t.Errorf("no sale expected, got %d", len(f.repo.sales))
	}
	if order.Status != enums.OrderStatusInPackaging {
		t.Errorf("order status = %s, want unchanged", order.Status)
	}
}

func TestTrySettleOrderIdempotent(t *testing.T) {
	f := newSalesFixture(t)
	order := f.addOrder(enums.OrderStatusInPackaging,
		itemSpec{qty: "2", approved: "2", totalCents: 1000},
	)

	settled, err := f.svc.TrySettleOrder(context.Background(), nil, order.ID, actorFor(f.storeID))
	if err != nil || !settled {
		t.Fatalf("first settlement: settled=%v err=%v", settled, err)
	}

	// A released order never re-enters settlement.
	settled, err = f.svc.TrySettleOrder(context.Background(), nil, order.ID, actorFor(f.storeID))
	if err != nil {
		t.Fatalf("second settlement: %v", err)
	}
	if settled {
		t.Fatal("second settlement must be a no-op")
	}
	if len(f.repo.sales) != 1 {
		t.Errorf("expected exactly one sale, got %d", len(f.repo.sales))
	}

	// Even if the order were somehow re-opened, the unique index on
	// sales.order_id absorbs the duplicate.
	order.Status = enums.OrderStatusInPackaging
	settled, err = f.svc.TrySettleOrder(context.Background(), nil, order.ID, actorFor(f.storeID))
	if err != nil {
		t.Fatalf("replayed settlement: %v", err)
	}
	if settled || len(f.repo.sales) != 1 {
		t.Errorf("replay must not create a second sale: settled=%v sales=%d", settled, len(f.repo.sales))
	}
}

func TestTrySettleOrderClosesUnsoldOrder(t *testing.T) {
	f := newSalesFixture(t)
	order := f.addOrder(enums.OrderStatusInPackaging,
		itemSpec{qty: "0", approved: "0", totalCents: 0},
	)

	settled, err := f.svc.TrySettleOrder(context.Background(), nil, order.ID, actorFor(f.storeID))
	if err != nil {
		t.Fatalf("TrySettleOrder: %v", err)
	}
	if settled {
		t.Fatal("zero-total order must not settle into a sale")
	}
	if order.Status != enums.OrderStatusPackaged {
		t.Errorf("order status = %s, want packaged", order.Status)
	}
	if len(f.repo.sales) != 0 {
		t.Errorf("no sale expected, got %d", len(f.repo.sales))
	}
}

func TestInvoiceConfirmsOrder(t *testing.T) {
	f := newSalesFixture(t)
	order := f.addOrder(enums.OrderStatusInPackaging,
		itemSpec{qty: "2", approved: "2", totalCents: 1000},
	)
	if _, err := f.svc.TrySettleOrder(context.Background(), nil, order.ID, actorFor(f.storeID)); err != nil {
		t.Fatalf("TrySettleOrder: %v", err)
	}
	saleID := f.repo.byOrder[order.ID]

	input := InvoiceInput{
		SaleID:       saleID,
		ActorUserID:  uuid.New(),
		ActorStoreID: f.storeID,
		ActorRole:    "manager",
	}
	if err := f.svc.Invoice(context.Background(), input); err != nil {
		t.Fatalf("Invoice: %v", err)
	}

	if f.repo.sales[saleID].Status != enums.SaleStatusInvoiced {
		t.Errorf("sale status = %s, want invoiced", f.repo.sales[saleID].Status)
	}
	if order.Status != enums.OrderStatusSaleConfirmed {
		t.Errorf("order status = %s, want sale_confirmed", order.Status)
	}
	if len(f.outbox.events) != 2 || f.outbox.events[1].EventType != enums.EventSaleInvoiced {
		t.Fatalf("expected sale_invoiced event, got %v", f.outbox.events)
	}

	err := f.svc.Invoice(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("double invoice: expected STATE_CONFLICT, got %v", err)
	}
}
