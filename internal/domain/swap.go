package domain

import "time"

// SwapStatus enumerates swap request states.
type SwapStatus string

const (
	SwapStatusPending  SwapStatus = "PENDING"
	SwapStatusApproved SwapStatus = "APPROVED"
	SwapStatusRejected SwapStatus = "REJECTED"
)

// Terminal reports whether the status permits no further transitions.
func (s SwapStatus) Terminal() bool {
	return s == SwapStatusApproved || s == SwapStatusRejected
}

// SwapRequest models a proposed exchange of one rotation week between two
// operators. Approval permanently reassigns the named week in the base
// rotation; it does not create a DayOverride.
type SwapRequest struct {
	ID              string
	RequesterID     string
	TargetID        string
	WeekStart       time.Time
	WeekEnd         time.Time
	Reason          string
	Status          SwapStatus
	RequestedAt     time.Time
	RespondedAt     *time.Time
	RejectionReason *string
}
