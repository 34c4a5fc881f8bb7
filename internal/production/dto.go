package production

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
)

// EntryFilters describe the inputs supported by the production list.
type EntryFilters struct {
	Status    *enums.ProductionStatus
	ProductID *uuid.UUID
}

// EntryList wraps the paginated entries plus the next page cursor.
type EntryList struct {
	Entries    []models.ProductionEntry `json:"entries"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

// CreateEntryInput registers internal production not tied to an order.
type CreateEntryInput struct {
	StoreID      uuid.UUID
	ProductID    uuid.UUID
	QtyRequested decimal.Decimal
	ActorUserID  uuid.UUID
	ActorRole    string
}

// TransitionInput identifies the entry for a lifecycle transition.
type TransitionInput struct {
	EntryID      uuid.UUID
	ActorUserID  uuid.UUID
	ActorStoreID uuid.UUID
	ActorRole    string
}

// CompleteInput finishes a production run with the quantity actually produced.
type CompleteInput struct {
	EntryID      uuid.UUID
	QtyProduced  decimal.Decimal
	ActorUserID  uuid.UUID
	ActorStoreID uuid.UUID
	ActorRole    string
}

// ProductionApprovedEvent is emitted when an entry is approved.
type ProductionApprovedEvent struct {
	EntryID     uuid.UUID       `json:"entry_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	OrderItemID *uuid.UUID      `json:"order_item_id,omitempty"`
	QtyProduced decimal.Decimal `json:"qty_produced"`
	Internal    bool            `json:"internal"`
}
