package enums

import "fmt"

// ProductionStatus tracks the lifecycle of a production entry.
type ProductionStatus string

const (
	ProductionStatusPending    ProductionStatus = "pending"
	ProductionStatusInProgress ProductionStatus = "in_progress"
	ProductionStatusCompleted  ProductionStatus = "completed"
	ProductionStatusApproved   ProductionStatus = "approved"
)

var validProductionStatuses = []ProductionStatus{
	ProductionStatusPending,
	ProductionStatusInProgress,
	ProductionStatusCompleted,
	ProductionStatusApproved,
}

// IsValid reports whether the value matches the canonical production status enum.
func (s ProductionStatus) IsValid() bool {
	for _, candidate := range validProductionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductionStatus converts raw input into ProductionStatus.
func ParseProductionStatus(value string) (ProductionStatus, error) {
	for _, candidate := range validProductionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid production status %q", value)
}
