package packaging

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
)

// EntryFilters describe the inputs supported by the packaging list.
type EntryFilters struct {
	Status    *enums.PackagingStatus
	ProductID *uuid.UUID
	OrderID   *uuid.UUID
}

// EntryList wraps the paginated entries plus the next page cursor.
type EntryList struct {
	Entries    []models.PackagingEntry `json:"entries"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

// TransitionInput identifies the entry for a lifecycle transition.
type TransitionInput struct {
	EntryID      uuid.UUID
	ActorUserID  uuid.UUID
	ActorStoreID uuid.UUID
	ActorRole    string
}

// CompleteInput finishes a packaging run. QualityChecked must be set; an
// entry cannot be completed without the quality pass.
type CompleteInput struct {
	EntryID        uuid.UUID
	QtyPackaged    decimal.Decimal
	QualityChecked bool
	ActorUserID    uuid.UUID
	ActorStoreID   uuid.UUID
	ActorRole      string
}

// PackagingApprovedEvent is emitted when an entry is approved.
type PackagingApprovedEvent struct {
	EntryID      uuid.UUID       `json:"entry_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	OrderItemID  *uuid.UUID      `json:"order_item_id,omitempty"`
	QtyPackaged  decimal.Decimal `json:"qty_packaged"`
	OrderSettled bool            `json:"order_settled"`
}

// PackagingRejectedEvent is emitted when an entry is rejected.
type PackagingRejectedEvent struct {
	EntryID       uuid.UUID       `json:"entry_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	OrderItemID   *uuid.UUID      `json:"order_item_id,omitempty"`
	QtyToPackage  decimal.Decimal `json:"qty_to_package"`
	StockReturned bool            `json:"stock_returned"`
}
