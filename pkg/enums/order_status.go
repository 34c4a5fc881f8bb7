package enums

import "fmt"

// OrderStatus tracks the lifecycle of a customer order.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusInProduction    OrderStatus = "in_production"
	OrderStatusInPackaging     OrderStatus = "in_packaging"
	OrderStatusPackaged        OrderStatus = "packaged"
	OrderStatusReleasedForSale OrderStatus = "released_for_sale"
	OrderStatusSaleConfirmed   OrderStatus = "sale_confirmed"
	OrderStatusInDelivery      OrderStatus = "in_delivery"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCanceled        OrderStatus = "canceled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInProduction,
	OrderStatusInPackaging,
	OrderStatusPackaged,
	OrderStatusReleasedForSale,
	OrderStatusSaleConfirmed,
	OrderStatusInDelivery,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// IsValid reports whether the value matches the canonical order status enum.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
