package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type column of outbox_events.
type OutboxAggregateType string

const (
	AggregateOrder           OutboxAggregateType = "order"
	AggregateProductionEntry OutboxAggregateType = "production_entry"
	AggregatePackagingEntry  OutboxAggregateType = "packaging_entry"
	AggregateSale            OutboxAggregateType = "sale"
	AggregateStockMovement   OutboxAggregateType = "stock_movement"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregateProductionEntry,
	AggregatePackagingEntry,
	AggregateSale,
	AggregateStockMovement,
}

// IsValid reports whether the value matches the canonical aggregate type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// OutboxEventType maps to the event_type column of outbox_events.
type OutboxEventType string

const (
	EventOrderCreated         OutboxEventType = "order_created"
	EventOrderRouted          OutboxEventType = "order_routed"
	EventOrderDeliveryStarted OutboxEventType = "order_delivery_started"
	EventOrderDelivered       OutboxEventType = "order_delivered"
	EventProductionApproved   OutboxEventType = "production_approved"
	EventPackagingApproved    OutboxEventType = "packaging_approved"
	EventPackagingRejected    OutboxEventType = "packaging_rejected"
	EventSaleCreated          OutboxEventType = "sale_created"
	EventSaleInvoiced         OutboxEventType = "sale_invoiced"
	EventStockAdjusted        OutboxEventType = "stock_adjusted"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderCreated,
	EventOrderRouted,
	EventOrderDeliveryStarted,
	EventOrderDelivered,
	EventProductionApproved,
	EventPackagingApproved,
	EventPackagingRejected,
	EventSaleCreated,
	EventSaleInvoiced,
	EventStockAdjusted,
}

// IsValid reports whether the value matches the canonical event type enum.
func (t OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}
