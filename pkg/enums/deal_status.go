package enums

import "fmt"

// DealStatus tracks the lifecycle of a desked deal.
type DealStatus string

const (
	DealStatusPending    DealStatus = "pending"
	DealStatusInProgress DealStatus = "in_progress"
	DealStatusCompleted  DealStatus = "completed"
	DealStatusCancelled  DealStatus = "cancelled"
)

var validDealStatuses = []DealStatus{
	DealStatusPending,
	DealStatusInProgress,
	DealStatusCompleted,
	DealStatusCancelled,
}

// allowedDealTransitions is the full transition table; terminal states have
// no outgoing edges.
var allowedDealTransitions = map[DealStatus][]DealStatus{
	DealStatusPending:    {DealStatusInProgress, DealStatusCancelled},
	DealStatusInProgress: {DealStatusCompleted, DealStatusCancelled},
	DealStatusCompleted:  {},
	DealStatusCancelled:  {},
}

// String implements fmt.Stringer.
func (d DealStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DealStatus.
func (d DealStatus) IsValid() bool {
	for _, candidate := range validDealStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (d DealStatus) IsTerminal() bool {
	return len(allowedDealTransitions[d]) == 0 && d.IsValid()
}

// CanTransitionTo reports whether the status may move to the target state.
func (d DealStatus) CanTransitionTo(target DealStatus) bool {
	for _, candidate := range allowedDealTransitions[d] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseDealStatus converts raw input into a DealStatus.
func ParseDealStatus(value string) (DealStatus, error) {
	for _, candidate := range validDealStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal status %q", value)
}
