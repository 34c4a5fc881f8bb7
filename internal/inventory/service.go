package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
	pkgerrors "github.com/lucasferreira/fornada-backend/pkg/errors"
	"github.com/lucasferreira/fornada-backend/pkg/outbox"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

// maxStockAttempts bounds the conditional-update retry loop under contention.
const maxStockAttempts = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes product catalog operations plus the transaction-scoped stock
// primitives consumed by the routing and approval cascades.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters ProductFilters) (*ProductList, error)
	ListMovements(ctx context.Context, productID uuid.UUID, params pagination.Params) (*MovementList, error)
	AdjustStock(ctx context.Context, input AdjustStockInput) (*models.StockMovement, error)

	ProductForRouting(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error)
	ReserveStock(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) (bool, error)
	ReturnStock(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) error
	DeductIngredients(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) ([]IngredientShortage, error)
	RestockProduced(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outbox}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if input.SKU == "" || input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku and name required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Stock.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}
	if len(input.RecipeLines) > 0 && !input.IsManufactured {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe lines require a manufactured product")
	}

	product := &models.Product{
		StoreID:        input.StoreID,
		SKU:            input.SKU,
		Name:           input.Name,
		Stock:          input.Stock,
		IsManufactured: input.IsManufactured,
		PriceCents:     input.PriceCents,
		IsActive:       true,
	}
	for _, line := range input.RecipeLines {
		if line.IngredientID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe line ingredient required")
		}
		if !line.QtyPerUnit.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe line quantity must be positive")
		}
		product.RecipeLines = append(product.RecipeLines, models.RecipeLine{
			IngredientID: line.IngredientID,
			QtyPerUnit:   line.QtyPerUnit,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateProduct(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	list, err := s.repo.ListProducts(ctx, storeID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) ListMovements(ctx context.Context, productID uuid.UUID, params pagination.Params) (*MovementList, error) {
	list, err := s.repo.ListMovements(ctx, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}
	return list, nil
}

func (s *service) AdjustStock(ctx context.Context, input AdjustStockInput) (*models.StockMovement, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Qty.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment quantity must not be zero")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var movement *models.StockMovement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindProduct(ctx, input.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		if input.Qty.IsPositive() {
			if err := repo.AddStock(ctx, product.ID, input.Qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add stock")
			}
		} else {
			removed := input.Qty.Neg()
			ok, err := repo.DecrementStock(ctx, product.ID, removed)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock for adjustment")
			}
		}

		actor := input.ActorUserID
		movement, err = repo.RecordMovement(ctx, &models.StockMovement{
			StoreID:      product.StoreID,
			ProductID:    product.ID,
			Type:         enums.StockMovementAdjustment,
			QtyRequested: input.Qty,
			QtyApplied:   input.Qty,
			ActorUserID:  &actor,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventStockAdjusted,
			AggregateType: enums.AggregateStockMovement,
			AggregateID:   movement.ID,
			Version:       1,
			Actor: &outbox.ActorRef{
				UserID: input.ActorUserID,
				Role:   input.ActorRole,
			},
			Data: map[string]any{
				"product_id": product.ID,
				"qty":        input.Qty,
				"reason":     input.Reason,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *service) ProductForRouting(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.WithTx(tx).FindProduct(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// ReserveStock removes qty from the product in a single conditional statement.
// A false return means the stock no longer covered the quantity.
func (s *service) ReserveStock(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) (bool, error) {
	if !qty.IsPositive() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "reserve quantity must be positive")
	}
	repo := s.repo.WithTx(tx)

	ok, err := repo.DecrementStock(ctx, productID, qty)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
	}
	if !ok {
		return false, nil
	}

	if err := s.journal(ctx, repo, storeID, productID, enums.StockMovementOrderReserve, qty, qty, referenceID, actorUserID); err != nil {
		return false, err
	}
	return true, nil
}

// ReturnStock puts qty back on the product, journaled as an order return.
func (s *service) ReturnStock(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) error {
	if !qty.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "return quantity must be positive")
	}
	repo := s.repo.WithTx(tx)
	if err := repo.AddStock(ctx, productID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "return stock")
	}
	return s.journal(ctx, repo, storeID, productID, enums.StockMovementOrderReturn, qty, qty, referenceID, actorUserID)
}

// DeductIngredients consumes qty units' worth of every recipe line of the
// product. Deductions clamp at zero; each shortfall is journaled and returned
// so the caller can surface a warning. No recipe means no deduction.
func (s *service) DeductIngredients(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) ([]IngredientShortage, error) {
	if !qty.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deduction quantity must be positive")
	}
	repo := s.repo.WithTx(tx)

	lines, err := repo.FindRecipeLines(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipe lines")
	}
	if len(lines) == 0 {
		return nil, nil
	}

	var shortages []IngredientShortage
	for _, line := range lines {
		toDeduct := line.QtyPerUnit.Mul(qty)
		applied, err := s.deductClamped(ctx, repo, line.IngredientID, toDeduct)
		if err != nil {
			return nil, err
		}
		if err := s.journal(ctx, repo, storeID, line.IngredientID, enums.StockMovementIngredientConsume, toDeduct, applied, referenceID, actorUserID); err != nil {
			return nil, err
		}
		if applied.LessThan(toDeduct) {
			shortages = append(shortages, IngredientShortage{
				IngredientID: line.IngredientID,
				QtyRequested: toDeduct,
				QtyApplied:   applied,
			})
		}
	}
	return shortages, nil
}

// RestockProduced adds finished goods back to the product stock.
func (s *service) RestockProduced(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal, referenceID, actorUserID uuid.UUID) error {
	if !qty.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "restock quantity must be positive")
	}
	repo := s.repo.WithTx(tx)
	if err := repo.AddStock(ctx, productID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock product")
	}
	return s.journal(ctx, repo, storeID, productID, enums.StockMovementProductionRestock, qty, qty, referenceID, actorUserID)
}

// deductClamped removes up to toDeduct from the ingredient. The full
// conditional decrement is attempted first; when stock runs short the
// remainder is zeroed with a compare-and-swap so concurrent writers never
// drive stock negative.
func (s *service) deductClamped(ctx context.Context, repo Repository, ingredientID uuid.UUID, toDeduct decimal.Decimal) (decimal.Decimal, error) {
	for attempt := 0; attempt < maxStockAttempts; attempt++ {
		ok, err := repo.DecrementStock(ctx, ingredientID, toDeduct)
		if err != nil {
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deduct ingredient")
		}
		if ok {
			return toDeduct, nil
		}

		ingredient, err := repo.FindProduct(ctx, ingredientID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
			}
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredient")
		}
		current := ingredient.Stock
		if current.GreaterThanOrEqual(toDeduct) {
			// stock replenished between attempts, retry the full decrement
			continue
		}

		swapped, err := repo.SetStockIfCurrent(ctx, ingredientID, current, decimal.Zero)
		if err != nil {
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clamp ingredient stock")
		}
		if swapped {
			return current, nil
		}
	}
	return decimal.Zero, pkgerrors.New(pkgerrors.CodeConflict, "ingredient stock contention, retry the operation")
}

func (s *service) journal(ctx context.Context, repo Repository, storeID, productID uuid.UUID, movementType enums.StockMovementType, requested, applied decimal.Decimal, referenceID, actorUserID uuid.UUID) error {
	movement := &models.StockMovement{
		StoreID:      storeID,
		ProductID:    productID,
		Type:         movementType,
		QtyRequested: requested,
		QtyApplied:   applied,
	}
	if referenceID != uuid.Nil {
		ref := referenceID
		movement.ReferenceID = &ref
	}
	if actorUserID != uuid.Nil {
		actor := actorUserID
		movement.ActorUserID = &actor
	}
	if _, err := repo.RecordMovement(ctx, movement); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
	}
	return nil
}
