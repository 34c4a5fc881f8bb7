package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasferreira/fornada-backend/internal/inventory"
	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
)

// OrderFilters describe the inputs supported by the order list.
type OrderFilters struct {
	Status   *enums.OrderStatus
	ClientID *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// CreateOrderItemInput is one requested product line on order creation.
type CreateOrderItemInput struct {
	ProductID uuid.UUID
	Qty       decimal.Decimal
}

// CreateOrderInput carries the fields accepted when registering an order.
type CreateOrderInput struct {
	StoreID     uuid.UUID
	ClientID    uuid.UUID
	ClientName  string
	Notes       *string
	Items       []CreateOrderItemInput
	ActorUserID uuid.UUID
	ActorRole   string
}

// RouteOrderInput identifies the order to route plus the acting user.
type RouteOrderInput struct {
	OrderID      uuid.UUID
	ActorUserID  uuid.UUID
	ActorStoreID uuid.UUID
	ActorRole    string
}

// TransitionInput identifies the order for a lifecycle transition.
type TransitionInput struct {
	OrderID      uuid.UUID
	ActorUserID  uuid.UUID
	ActorStoreID uuid.UUID
	ActorRole    string
}

// ItemOutcome classifies how routing resolved one order item.
type ItemOutcome string

const (
	ItemOutcomeFromStock    ItemOutcome = "from_stock"
	ItemOutcomeToProduction ItemOutcome = "to_production"
	ItemOutcomeMixed        ItemOutcome = "mixed"
	ItemOutcomeUnfulfilled  ItemOutcome = "unfulfilled"
)

// ItemRouting reports the per-item routing decision.
type ItemRouting struct {
	OrderItemID     uuid.UUID                      `json:"order_item_id"`
	ProductID       uuid.UUID                      `json:"product_id"`
	Outcome         ItemOutcome                    `json:"outcome"`
	QtyFromStock    decimal.Decimal                `json:"qty_from_stock"`
	QtyToProduction decimal.Decimal                `json:"qty_to_production"`
	Shortages       []inventory.IngredientShortage `json:"shortages,omitempty"`
	Message         string                         `json:"message,omitempty"`
}

// RouteResult aggregates the routing outcome for a whole order.
type RouteResult struct {
	OrderID uuid.UUID         `json:"order_id"`
	Status  enums.OrderStatus `json:"status"`
	Items   []ItemRouting     `json:"items"`
}

// OrderRoutedEvent is emitted once routing commits.
type OrderRoutedEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber int64             `json:"order_number"`
	Status      enums.OrderStatus `json:"status"`
	Items       []ItemRouting     `json:"items"`
}

// OrderCreatedEvent is emitted when an order is registered.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber int64     `json:"order_number"`
	ClientID    uuid.UUID `json:"client_id"`
	TotalCents  int       `json:"total_cents"`
	ItemCount   int       `json:"item_count"`
}
