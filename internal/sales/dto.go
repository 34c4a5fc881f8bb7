package sales

import (
	"github.com/google/uuid"

	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
)

// SaleFilters describe the inputs supported by the sale list.
type SaleFilters struct {
	Status   *enums.SaleStatus
	ClientID *uuid.UUID
}

// SaleList wraps the paginated sales plus the next page cursor.
type SaleList struct {
	Sales      []models.Sale `json:"sales"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// InvoiceInput identifies the sale to invoice.
type InvoiceInput struct {
	SaleID       uuid.UUID
	ActorUserID  uuid.UUID
	ActorStoreID uuid.UUID
	ActorRole    string
}

// SaleCreatedEvent is emitted when an order settles into a sale.
type SaleCreatedEvent struct {
	SaleID     uuid.UUID `json:"sale_id"`
	OrderID    uuid.UUID `json:"order_id"`
	ClientID   uuid.UUID `json:"client_id"`
	TotalCents int       `json:"total_cents"`
}

// SaleInvoicedEvent is emitted when a sale is invoiced.
type SaleInvoicedEvent struct {
	SaleID     uuid.UUID `json:"sale_id"`
	OrderID    uuid.UUID `json:"order_id"`
	TotalCents int       `json:"total_cents"`
}
