package packaging

import (
	"context"
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

type stubPackagingRepo struct {
	entries map[uuid.UUID]*models.PackagingEntry
}

func newStubPackagingRepo() *stubPackagingRepo {
	return &stubPackagingRepo{entries: make(map[uuid.UUID]*models.PackagingEntry)}
}

func (s *stubPackagingRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPackagingRepo) Create(ctx context.Context, entry *models.PackagingEntry) (*models.PackagingEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	s.entries[entry.ID] = entry
	return entry, nil
}

func (s *stubPackagingRepo) Find(ctx context.Context, id uuid.UUID) (*models.PackagingEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *entry
	return &copied, nil
}

func (s *stubPackagingRepo) FindOpenByProductionID(ctx context.Context, productionID uuid.UUID) (*models.PackagingEntry, error) {
	for _, entry := range s.entries {
		if entry.ProductionID != nil && *entry.ProductionID == productionID && entryOpen(entry.Status) {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPackagingRepo) List(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters EntryFilters) (*EntryList, error) {
	panic("not implemented")
}

func (s *stubPackagingRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	entry, ok := s.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"].(enums.PackagingStatus); ok {
		entry.Status = v
	}
	if v, ok := updates["qty_packaged"].(decimal.Decimal); ok {
		entry.QtyPackaged = v
	}
	if v, ok := updates["quality_checked"].(bool); ok {
		entry.QualityChecked = v
	}
	return nil
}

func (s *stubPackagingRepo) AddQtyToPackage(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	entry, ok := s.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.QtyToPackage = entry.QtyToPackage.Add(qty)
	return nil
}

func (s *stubPackagingRepo) CountOpenByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int64, error) {
	var count int64
	for _, entry := range s.entries {
		if entry.OrderItemID != nil && *entry.OrderItemID == orderItemID && entryOpen(entry.Status) {
			count++
		}
	}
	return count, nil
}

func entryOpen(status enums.PackagingStatus) bool {
	return status == enums.PackagingStatusPending ||
		status == enums.PackagingStatusInProgress ||
		status == enums.PackagingStatusCompleted
}

type reconcileCall struct {
	itemID uuid.UUID
	qty    decimal.Decimal
}

type stubItemTracker struct {
	items      map[uuid.UUID]*models.OrderItem
	reconciles []reconcileCall
}

func newStubItemTracker() *stubItemTracker {
	return &stubItemTracker{items: make(map[uuid.UUID]*models.OrderItem)}
}

func (s *stubItemTracker) ItemForCascade(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*models.OrderItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
	}
	return item, nil
}

func (s *stubItemTracker) RecordPackagedApproval(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty decimal.Decimal) error {
	item, ok := s.items[itemID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
	}
	item.QtyPackagedApproved = item.QtyPackagedApproved.Add(qty)
	return nil
}

func (s *stubItemTracker) ReconcileItemQty(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, approvedQty decimal.Decimal) (bool, error) {
	s.reconciles = append(s.reconciles, reconcileCall{itemID: itemID, qty: approvedQty})
	return true, nil
}

type returnCall struct {
	productID uuid.UUID
	qty       decimal.Decimal
}

type stubStockReturner struct {
	returns []returnCall
}

func (s *stubStockReturner) ReturnStock(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) error {
	s.returns = append(s.returns, returnCall{productID: productID, qty: qty})
	return nil
}

type stubProductionBacklog struct {
	open map[uuid.UUID]int64
}

func (s *stubProductionBacklog) CountOpenByOrderItem(ctx context.Context, tx *gorm.DB, orderItemID uuid.UUID) (int64, error) {
	if s.open == nil {
		return 0, nil
	}
	return s.open[orderItemID], nil
}

type stubSaleSettler struct {
	settle   bool
	attempts []uuid.UUID
}

func (s *stubSaleSettler) TrySettleOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, actor *outbox.ActorRef) (bool, error) {
	s.attempts = append(s.attempts, orderID)
	return s.settle, nil
}

type stubPackagingOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubPackagingOutbox) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type packagingFixture struct {
	repo       *stubPackagingRepo
	items      *stubItemTracker
	stock      *stubStockReturner
	sales      *stubSaleSettler
	production *stubProductionBacklog
	outbox     *stubPackagingOutbox
	svc        Service
	storeID    uuid.UUID
	orderID    uuid.UUID
}

func newPackagingFixture(t *testing.T) *packagingFixture {
	t.Helper()
	f := &packagingFixture{
		repo:       newStubPackagingRepo(),
		items:      newStubItemTracker(),
		stock:      &stubStockReturner{},
		sales:      &stubSaleSettler{settle: true},
		production: &stubProductionBacklog{open: make(map[uuid.UUID]int64)},
		outbox:     &stubPackagingOutbox{},
		storeID:    uuid.New(),
		orderID:    uuid.New(),
	}
	svc, err := NewService(f.repo, stubTxRunner{}, f.outbox, f.items, f.stock, f.sales, f.production, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.svc = svc
	return f
}

func (f *packagingFixture) addItem(qty string) *models.OrderItem {
	item := &models.OrderItem{
		ID:      uuid.New(),
		OrderID: f.orderID,
		Qty:     decimal.RequireFromString(qty),
	}
	f.items.items[item.ID] = item
	return item
}

func (f *packagingFixture) addEntry(status enums.PackagingStatus, itemID *uuid.UUID, productionID *uuid.UUID, toPackage, packaged string) *models.PackagingEntry {
	orderID := f.orderID
	entry := &models.PackagingEntry{
		ID:           uuid.New(),
		StoreID:      f.storeID,
		ProductionID: productionID,
		OrderItemID:  itemID,
		ProductID:    uuid.New(),
		QtyToPackage: decimal.RequireFromString(toPackage),
		QtyPackaged:  decimal.RequireFromString(packaged),
		Status:       status,
	}
	if itemID != nil {
		entry.OrderID = &orderID
	}
	f.repo.entries[entry.ID] = entry
	return entry
}

func (f *packagingFixture) transition(entryID uuid.UUID) TransitionInput {
	return TransitionInput{
		EntryID:      entryID,
		ActorUserID:  uuid.New(),
		ActorStoreID: f.storeID,
		ActorRole:    "operator",
	}
}

func TestApproveSettlesWhenItemFullyPackaged(t *testing.T) {
	f := newPackagingFixture(t)
	item := f.addItem("5")
	entry := f.addEntry(enums.PackagingStatusCompleted, &item.ID, nil, "5", "5")

	if err := f.svc.Approve(context.Background(), f.transition(entry.ID)); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if f.repo.entries[entry.ID].Status != enums.PackagingStatusApproved {
		t.Errorf("status = %s, want approved", f.repo.entries[entry.ID].Status)
	}
	if !item.QtyPackagedApproved.Equal(decimal.RequireFromString("5")) {
		t.Errorf("qty_packaged_approved = %s, want 5", item.QtyPackagedApproved)
	}
	if len(f.items.reconciles) != 0 {
		t.Error("fully packaged item must not be reconciled")
	}
	if len(f.sales.attempts) != 1 || f.sales.attempts[0] != f.orderID {
		t.Fatalf("expected one settlement attempt for the order, got %v", f.sales.attempts)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventPackagingApproved {
		t.Fatalf("expected packaging_approved event, got %v", f.outbox.events)
	}
	payload, ok := f.outbox.events[0].Data.(PackagingApprovedEvent)
	if !ok || !payload.OrderSettled {
		t.Errorf("event payload must record the settlement: %+v", f.outbox.events[0].Data)
	}
}

func TestApproveSkipsSettlementWhileSiblingsOpen(t *testing.T) {
	f := newPackagingFixture(t)
	item := f.addItem("10")
	entry := f.addEntry(enums.PackagingStatusCompleted, &item.ID, nil, "4", "4")
	f.addEntry(enums.PackagingStatusPending, &item.ID, nil, "6", "0")

	if err := f.svc.Approve(context.Background(), f.transition(entry.ID)); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if len(f.sales.attempts) != 0 {
		t.Errorf("settlement must wait for the sibling entry, got %v", f.sales.attempts)
	}
	if len(f.items.reconciles) != 0 {
		t.Error("item must not be reconciled while entries remain open")
	}
}

func TestApproveWaitsForOpenProduction(t *testing.T) {
	f := newPackagingFixture(t)
	item := f.addItem("5")
	stockEntry := f.addEntry(enums.PackagingStatusCompleted, &item.ID, nil, "2", "2")
	f.production.open[item.ID] = 1

	if err := f.svc.Approve(context.Background(), f.transition(stockEntry.ID)); err != nil {
		t.Fatalf("Approve stock-direct: %v", err)
	}

	if len(f.sales.attempts) != 0 {
		t.Errorf("settlement must wait for the production shortfall, got %v", f.sales.attempts)
	}
	if len(f.items.reconciles) != 0 {
		t.Error("item must not be reconciled while production is still owed")
	}

	// Production approval clears the backlog and feeds the remaining units
	// into a fresh packaging entry.
	f.production.open[item.ID] = 0
	productionID := uuid.New()
	prodEntry := f.addEntry(enums.PackagingStatusCompleted, &item.ID, &productionID, "3", "3")

	if err := f.svc.Approve(context.Background(), f.transition(prodEntry.ID)); err != nil {
		t.Fatalf("Approve production-fed: %v", err)
	}

	if !item.QtyPackagedApproved.Equal(decimal.RequireFromString("5")) {
		t.Errorf("qty_packaged_approved = %s, want 5", item.QtyPackagedApproved)
	}
	if len(f.items.reconciles) != 0 {
		t.Error("fully delivered item must not be reconciled")
	}
	if len(f.sales.attempts) != 1 || f.sales.attempts[0] != f.orderID {
		t.Fatalf("expected settlement once production caught up, got %v", f.sales.attempts)
	}
}

func TestApproveReconcilesShortfall(t *testing.T) {
	f := newPackagingFixture(t)
	item := f.addItem("10")
	entry := f.addEntry(enums.PackagingStatusCompleted, &item.ID, nil, "10", "6")

	if err := f.svc.Approve(context.Background(), f.transition(entry.ID)); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if len(f.items.reconciles) != 1 {
		t.Fatalf("expected 1 reconcile, got %d", len(f.items.reconciles))
	}
	reconcile := f.items.reconciles[0]
	if reconcile.itemID != item.ID || !reconcile.qty.Equal(decimal.RequireFromString("6")) {
		t.Errorf("reconcile = %+v, want item reduced to 6", reconcile)
	}
	if len(f.sales.attempts) != 1 {
		t.Error("settlement must still be attempted after reconciliation")
	}
}

func TestRejectStockDirectReturnsStock(t *testing.T) {
	f := newPackagingFixture(t)
	item := f.addItem("4")
	entry := f.addEntry(enums.PackagingStatusCompleted, &item.ID, nil, "4", "4")

	if err := f.svc.Reject(context.Background(), f.transition(entry.ID)); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	if f.repo.entries[entry.ID].Status != enums.PackagingStatusRejected {
		t.Errorf("status = %s, want rejected", f.repo.entries[entry.ID].Status)
	}
	if len(f.stock.returns) != 1 {
		t.Fatalf("expected 1 stock return, got %d", len(f.stock.returns))
	}
	ret := f.stock.returns[0]
	if ret.productID != entry.ProductID || !ret.qty.Equal(decimal.RequireFromString("4")) {
		t.Errorf("stock return = %+v", ret)
	}
	if len(f.items.reconciles) != 1 || !f.items.reconciles[0].qty.Equal(decimal.Zero) {
		t.Errorf("item must be reconciled to the approved total, got %v", f.items.reconciles)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventPackagingRejected {
		t.Fatalf("expected packaging_rejected event, got %v", f.outbox.events)
	}
}

func TestRejectProductionFedKeepsStock(t *testing.T) {
	f := newPackagingFixture(t)
	item := f.addItem("5")
	productionID := uuid.New()
	entry := f.addEntry(enums.PackagingStatusCompleted, &item.ID, &productionID, "5", "5")

	if err := f.svc.Reject(context.Background(), f.transition(entry.ID)); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	if len(f.stock.returns) != 0 {
		t.Errorf("production-fed reject must not return stock, got %v", f.stock.returns)
	}
}

func TestCompleteValidation(t *testing.T) {
	f := newPackagingFixture(t)
	item := f.addItem("5")
	entry := f.addEntry(enums.PackagingStatusInProgress, &item.ID, nil, "5", "0")

	base := CompleteInput{
		EntryID:      entry.ID,
		ActorUserID:  uuid.New(),
		ActorStoreID: f.storeID,
	}

	input := base
	input.QtyPackaged = decimal.RequireFromString("5")
	err := f.svc.Complete(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("completing without quality check: expected VALIDATION, got %v", err)
	}

	input.QualityChecked = true
	input.QtyPackaged = decimal.RequireFromString("8")
	err = f.svc.Complete(context.Background(), input)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("overshooting qty_to_package: expected VALIDATION, got %v", err)
	}

	input.QtyPackaged = decimal.RequireFromString("5")
	if err := f.svc.Complete(context.Background(), input); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	stored := f.repo.entries[entry.ID]
	if stored.Status != enums.PackagingStatusCompleted || !stored.QualityChecked {
		t.Errorf("entry = %+v, want completed with quality_checked", stored)
	}
}

func TestApproveGuardsState(t *testing.T) {
	f := newPackagingFixture(t)
	item := f.addItem("5")
	entry := f.addEntry(enums.PackagingStatusPending, &item.ID, nil, "5", "0")

	err := f.svc.Approve(context.Background(), f.transition(entry.ID))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("approving a pending entry: expected STATE_CONFLICT, got %v", err)
	}
}

func TestAugmentAccumulates(t *testing.T) {
	f := newPackagingFixture(t)
	item := f.addItem("8")
	productionID := uuid.New()
	entry := f.addEntry(enums.PackagingStatusPending, &item.ID, &productionID, "3", "0")

	found, err := f.svc.FindByProduction(context.Background(), nil, productionID)
	if err != nil {
		t.Fatalf("FindByProduction: %v", err)
	}
	if found == nil || found.ID != entry.ID {
		t.Fatalf("expected the open entry, got %v", found)
	}

	if err := f.svc.Augment(context.Background(), nil, entry.ID, decimal.RequireFromString("5")); err != nil {
		t.Fatalf("Augment: %v", err)
	}
	if !f.repo.entries[entry.ID].QtyToPackage.Equal(decimal.RequireFromString("8")) {
		t.Errorf("qty_to_package = %s, want 8", f.repo.entries[entry.ID].QtyToPackage)
	}

	missing, err := f.svc.FindByProduction(context.Background(), nil, uuid.New())
	if err != nil || missing != nil {
		t.Errorf("unknown production must resolve to nil entry, got %v %v", missing, err)
	}
}
