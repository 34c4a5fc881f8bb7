package enums

import "fmt"

// SaleStatus tracks the settlement record lifecycle.
type SaleStatus string

const (
	SaleStatusPending  SaleStatus = "pending"
	SaleStatusInvoiced SaleStatus = "invoiced"
)

var validSaleStatuses = []SaleStatus{
	SaleStatusPending,
	SaleStatusInvoiced,
}

// IsValid reports whether the value matches the canonical sale status enum.
func (s SaleStatus) IsValid() bool {
	for _, candidate := range validSaleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSaleStatus converts raw input into SaleStatus.
func ParseSaleStatus(value string) (SaleStatus, error) {
	for _, candidate := range validSaleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sale status %q", value)
}
