package enums

import "fmt"

// PackagingStatus tracks the lifecycle of a packaging entry.
type PackagingStatus string

const (
	PackagingStatusPending    PackagingStatus = "pending"
	PackagingStatusInProgress PackagingStatus = "in_progress"
	PackagingStatusCompleted  PackagingStatus = "completed"
	PackagingStatusApproved   PackagingStatus = "approved"
	PackagingStatusRejected   PackagingStatus = "rejected"
)

var validPackagingStatuses = []PackagingStatus{
	PackagingStatusPending,
	PackagingStatusInProgress,
	PackagingStatusCompleted,
	PackagingStatusApproved,
	PackagingStatusRejected,
}

// IsValid reports whether the value matches the canonical packaging status enum.
func (s PackagingStatus) IsValid() bool {
	for _, candidate := range validPackagingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePackagingStatus converts raw input into PackagingStatus.
func ParsePackagingStatus(value string) (PackagingStatus, error) {
	for _, candidate := range validPackagingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid packaging status %q", value)
}
