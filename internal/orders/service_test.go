package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/internal/inventory"
	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
	pkgerrors "github.com/lucasferreira/fornada-backend/pkg/errors"
	"github.com/lucasferreira/fornada-backend/pkg/outbox"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	orders      map[uuid.UUID]*models.Order
	nextNumber  int64
	updates     map[string]any
	itemUpdates map[uuid.UUID]map[string]any
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{orders: make(map[uuid.UUID]*models.Order), nextNumber: 1}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) NextOrderNumber(ctx context.Context, storeID uuid.UUID) (int64, error) {
	n := s.nextNumber
	s.nextNumber++
	return n, nil
}

func (s *stubOrdersRepo) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrdersRepo) ListOrders(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.updates = updates
	if v, ok := updates["status"].(enums.OrderStatus); ok {
		order.Status = v
	}
	return nil
}

func (s *stubOrdersRepo) FindOrderItem(ctx context.Context, itemID uuid.UUID) (*models.OrderItem, error) {
	for _, order := range s.orders {
		for i := range order.Items {
			if order.Items[i].ID == itemID {
				return &order.Items[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) UpdateOrderItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	if s.itemUpdates == nil {
		s.itemUpdates = make(map[uuid.UUID]map[string]any)
	}
	s.itemUpdates[itemID] = updates
	return nil
}

func (s *stubOrdersRepo) AccumulateProducedApproved(ctx context.Context, itemID uuid.UUID, qty decimal.Decimal) error {
	return nil
}

func (s *stubOrdersRepo) AccumulatePackagedApproved(ctx context.Context, itemID uuid.UUID, qty decimal.Decimal) error {
	return nil
}

type stubStockKeeper struct {
	products map[uuid.UUID]*models.Product
	recipes  map[uuid.UUID][]models.RecipeLine
}

func newStubStockKeeper() *stubStockKeeper {
	return &stubStockKeeper{
		products: make(map[uuid.UUID]*models.Product),
		recipes:  make(map[uuid.UUID][]models.RecipeLine),
	}
}

func (s *stubStockKeeper) addProduct(storeID uuid.UUID, stock string, manufactured bool, priceCents int) *models.Product {
	product := &models.Product{
		ID:             uuid.New(),
		StoreID:        storeID,
		Name:           "product",
		Stock:          decimal.RequireFromString(stock),
		IsManufactured: manufactured,
		PriceCents:     priceCents,
		IsActive:       true,
	}
	s.products[product.ID] = product
	return product
}

func (s *stubStockKeeper) ProductForRouting(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	copied := *product
	return &copied, nil
}

func (s *stubStockKeeper) ReserveStock(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) (bool, error) {
	product, ok := s.products[productID]
	if !ok || product.Stock.LessThan(qty) {
		return false, nil
	}
	product.Stock = product.Stock.Sub(qty)
	return true, nil
}

func (s *stubStockKeeper) DeductIngredients(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) ([]inventory.IngredientShortage, error) {
	var shortages []inventory.IngredientShortage
	for _, line := range s.recipes[productID] {
		toDeduct := line.QtyPerUnit.Mul(qty)
		ingredient := s.products[line.IngredientID]
		applied := toDeduct
		if ingredient.Stock.LessThan(toDeduct) {
			applied = ingredient.Stock
			shortages = append(shortages, inventory.IngredientShortage{
				IngredientID: line.IngredientID,
				QtyRequested: toDeduct,
				QtyApplied:   applied,
			})
		}
		ingredient.Stock = ingredient.Stock.Sub(applied)
	}
	return shortages, nil
}

type stubProductionScheduler struct {
	entries []*models.ProductionEntry
}

func (s *stubProductionScheduler) Schedule(ctx context.Context, tx *gorm.DB, entry *models.ProductionEntry) (*models.ProductionEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

type stubPackagingScheduler struct {
	entries []*models.PackagingEntry
}

func (s *stubPackagingScheduler) Schedule(ctx context.Context, tx *gorm.DB, entry *models.PackagingEntry) (*models.PackagingEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

type stubOrdersOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOrdersOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *stubOrdersOutbox) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type routingFixture struct {
	repo       *stubOrdersRepo
	stock      *stubStockKeeper
	production *stubProductionScheduler
	packaging  *stubPackagingScheduler
	outbox     *stubOrdersOutbox
	svc        Service
	storeID    uuid.UUID
}

func newRoutingFixture(t *testing.T) *routingFixture {
	t.Helper()
	f := &routingFixture{
		repo:       newStubOrdersRepo(),
		stock:      newStubStockKeeper(),
		production: &stubProductionScheduler{},
		packaging:  &stubPackagingScheduler{},
		outbox:     &stubOrdersOutbox{},
		storeID:    uuid.New(),
	}
	svc, err := NewService(f.repo, stubTxRunner{}, f.outbox, f.stock, f.production, f.packaging, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.svc = svc
	return f
}

func (f *routingFixture) addOrder(items ...models.OrderItem) *models.Order {
	order := &models.Order{
		ID:          uuid.New(),
		StoreID:     f.storeID,
		OrderNumber: 1,
		ClientID:    uuid.New(),
		ClientName:  "Padaria Central",
		Status:      enums.OrderStatusPending,
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = order.ID
	}
	order.Items = items
	f.repo.orders[order.ID] = order
	return order
}

func (f *routingFixture) route(t *testing.T, orderID uuid.UUID) *RouteResult {
	t.Helper()
	result, err := f.svc.Route(context.Background(), RouteOrderInput{
		OrderID:      orderID,
		ActorUserID:  uuid.New(),
		ActorStoreID: f.storeID,
		ActorRole:    "manager",
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	return result
}

func TestRouteOrderFromStock(t *testing.T) {
	f := newRoutingFixture(t)
	product := f.stock.addProduct(f.storeID, "10", false, 500)
	order := f.addOrder(models.OrderItem{
		ProductID:      product.ID,
		Qty:            decimal.RequireFromString("4"),
		UnitPriceCents: 500,
	})

	result := f.route(t, order.ID)

	if result.Status != enums.OrderStatusInPackaging {
		t.Errorf("status = %s, want in_packaging", result.Status)
	}
	if got := f.stock.products[product.ID].Stock; !got.Equal(decimal.RequireFromString("6")) {
		t.Errorf("stock = %s, want 6", got)
	}
	if len(f.production.entries) != 0 {
		t.Errorf("expected no production entries, got %d", len(f.production.entries))
	}
	if len(f.packaging.entries) != 1 {
		t.Fatalf("expected 1 packaging entry, got %d", len(f.packaging.entries))
	}
	entry := f.packaging.entries[0]
	if !entry.QtyToPackage.Equal(decimal.RequireFromString("4")) {
		t.Errorf("qty_to_package = %s, want 4", entry.QtyToPackage)
	}
	if entry.ProductionID != nil {
		t.Error("stock-direct entry must not reference production")
	}
	if entry.OrderID == nil || *entry.OrderID != order.ID {
		t.Error("entry must carry the order reference")
	}
	if result.Items[0].Outcome != ItemOutcomeFromStock {
		t.Errorf("outcome = %s", result.Items[0].Outcome)
	}
}

func TestRouteOrderToProduction(t *testing.T) {
	f := newRoutingFixture(t)
	bread := f.stock.addProduct(f.storeID, "0", true, 800)
	flour := f.stock.addProduct(f.storeID, "100", false, 100)
	f.stock.recipes[bread.ID] = []models.RecipeLine{
		{ProductID: bread.ID, IngredientID: flour.ID, QtyPerUnit: decimal.RequireFromString("1")},
	}
	order := f.addOrder(models.OrderItem{
		ProductID:      bread.ID,
		Qty:            decimal.RequireFromString("5"),
		UnitPriceCents: 800,
	})

	result := f.route(t, order.ID)

	if result.Status != enums.OrderStatusInProduction {
		t.Errorf("status = %s, want in_production", result.Status)
	}
	if len(f.production.entries) != 1 {
		t.Fatalf("expected 1 production entry, got %d", len(f.production.entries))
	}
	entry := f.production.entries[0]
	if !entry.QtyRequested.Equal(decimal.RequireFromString("5")) {
		t.Errorf("qty_requested = %s, want 5", entry.QtyRequested)
	}
	if entry.OrderItemID == nil || *entry.OrderItemID != order.Items[0].ID {
		t.Error("entry must reference the order item")
	}
	if got := f.stock.products[flour.ID].Stock; !got.Equal(decimal.RequireFromString("95")) {
		t.Errorf("flour stock = %s, want 95", got)
	}
	if len(f.packaging.entries) != 0 {
		t.Errorf("expected no packaging entries, got %d", len(f.packaging.entries))
	}
	if result.Items[0].Outcome != ItemOutcomeToProduction {
		t.Errorf("outcome = %s", result.Items[0].Outcome)
	}
}

func TestRouteOrderPartialStock(t *testing.T) {
	f := newRoutingFixture(t)
	bread := f.stock.addProduct(f.storeID, "3", true, 800)
	order := f.addOrder(models.OrderItem{
		ProductID:      bread.ID,
		Qty:            decimal.RequireFromString("10"),
		UnitPriceCents: 800,
	})

	result := f.route(t, order.ID)

	if result.Status != enums.OrderStatusInPackaging {
		t.Errorf("status = %s, want in_packaging (mixed)", result.Status)
	}
	if len(f.production.entries) != 1 {
		t.Fatalf("expected 1 production entry, got %d", len(f.production.entries))
	}
	if !f.production.entries[0].QtyRequested.Equal(decimal.RequireFromString("7")) {
		t.Errorf("qty_requested = %s, want 7", f.production.entries[0].QtyRequested)
	}
	if len(f.packaging.entries) != 1 {
		t.Fatalf("expected 1 packaging entry, got %d", len(f.packaging.entries))
	}
	if !f.packaging.entries[0].QtyToPackage.Equal(decimal.RequireFromString("3")) {
		t.Errorf("qty_to_package = %s, want 3", f.packaging.entries[0].QtyToPackage)
	}
	if !f.stock.products[bread.ID].Stock.IsZero() {
		t.Errorf("stock = %s, want 0", f.stock.products[bread.ID].Stock)
	}
	if result.Items[0].Outcome != ItemOutcomeMixed {
		t.Errorf("outcome = %s", result.Items[0].Outcome)
	}
}

func TestRouteOrderUnfulfilled(t *testing.T) {
	f := newRoutingFixture(t)
	widget := f.stock.addProduct(f.storeID, "0", false, 300)
	order := f.addOrder(models.OrderItem{
		ProductID:      widget.ID,
		Qty:            decimal.RequireFromString("5"),
		UnitPriceCents: 300,
	})

	result := f.route(t, order.ID)

	if result.Status != enums.OrderStatusPending {
		t.Errorf("status = %s, want pending", result.Status)
	}
	if len(f.production.entries) != 0 || len(f.packaging.entries) != 0 {
		t.Error("no entries expected for an unfulfillable item")
	}
	item := result.Items[0]
	if item.Outcome != ItemOutcomeUnfulfilled {
		t.Errorf("outcome = %s", item.Outcome)
	}
	if item.Message == "" {
		t.Error("expected a shortage message")
	}
	if len(f.outbox.events) != 0 {
		t.Errorf("routing that changed nothing must not emit an event, got %v", f.outbox.events)
	}
}

func TestRouteOrderRejectsRerouting(t *testing.T) {
	f := newRoutingFixture(t)
	product := f.stock.addProduct(f.storeID, "10", false, 500)
	order := f.addOrder(models.OrderItem{
		ProductID:      product.ID,
		Qty:            decimal.RequireFromString("4"),
		UnitPriceCents: 500,
	})
	order.Status = enums.OrderStatusInPackaging

	_, err := f.svc.Route(context.Background(), RouteOrderInput{
		OrderID:      order.ID,
		ActorUserID:  uuid.New(),
		ActorStoreID: f.storeID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	f := newRoutingFixture(t)
	bread := f.stock.addProduct(f.storeID, "10", true, 800)
	cake := f.stock.addProduct(f.storeID, "2", true, 2500)

	order, err := f.svc.Create(context.Background(), CreateOrderInput{
		StoreID:    f.storeID,
		ClientID:   uuid.New(),
		ClientName: "Cafe Aurora",
		Items: []CreateOrderItemInput{
			{ProductID: bread.ID, Qty: decimal.RequireFromString("3")},
			{ProductID: cake.ID, Qty: decimal.RequireFromString("1.5")},
		},
		ActorUserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.OrderNumber != 1 {
		t.Errorf("order number = %d, want 1", order.OrderNumber)
	}
	// 3×800 + 1.5×2500
	if order.TotalCents != 2400+3750 {
		t.Errorf("total = %d, want 6150", order.TotalCents)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventOrderCreated {
		t.Fatalf("expected order_created event, got %v", f.outbox.events)
	}
}

func TestReconcileItemQtyReducesTotals(t *testing.T) {
	f := newRoutingFixture(t)
	order := f.addOrder(models.OrderItem{
		ProductID:      uuid.New(),
		ProductName:    "Baguette",
		Qty:            decimal.RequireFromString("10"),
		UnitPriceCents: 500,
		TotalCents:     5000,
	})
	itemID := order.Items[0].ID

	changed, err := f.svc.ReconcileItemQty(context.Background(), nil, itemID, decimal.RequireFromString("6"))
	if err != nil {
		t.Fatalf("ReconcileItemQty: %v", err)
	}
	if !changed {
		t.Fatal("expected reconciliation to report a change")
	}
	updates := f.repo.itemUpdates[itemID]
	if updates == nil {
		t.Fatal("expected item update to be recorded")
	}
	qty, ok := updates["qty"].(decimal.Decimal)
	if !ok || !qty.Equal(decimal.RequireFromString("6")) {
		t.Errorf("qty update = %v, want 6", updates["qty"])
	}
	if updates["total_cents"] != 3000 {
		t.Errorf("total_cents update = %v, want 3000", updates["total_cents"])
	}

	// approved quantity meeting the target is a no-op
	changed, err = f.svc.ReconcileItemQty(context.Background(), nil, itemID, decimal.RequireFromString("10"))
	if err != nil {
		t.Fatalf("ReconcileItemQty: %v", err)
	}
	if changed {
		t.Fatal("expected no change when approved quantity covers the item")
	}
}
