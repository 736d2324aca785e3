package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSwapRequested    EventType = "swap_requested"
	EventSwapApproved     EventType = "swap_approved"
	EventSwapRejected     EventType = "swap_rejected"
	EventOverrideCreated  EventType = "override_created"
	EventRotationExtended EventType = "rotation_extended"
	EventHorizonLow       EventType = "horizon_low"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SwapRequestedPayload payload.
type SwapRequestedPayload struct {
	SwapRequestID string    `json:"swap_request_id"`
	RequesterID   string    `json:"requester_id"`
	TargetID      string    `json:"target_id"`
	WeekStart     time.Time `json:"week_start"`
	Reason        string    `json:"reason,omitempty"`
}

// SwapResolvedPayload is shared by approval and rejection events.
type SwapResolvedPayload struct {
	SwapRequestID   string    `json:"swap_request_id"`
	RequesterID     string    `json:"requester_id"`
	TargetID        string    `json:"target_id"`
	WeekStart       time.Time `json:"week_start"`
	NewOperatorID   string    `json:"new_operator_id,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
}

// OverrideCreatedPayload payload.
type OverrideCreatedPayload struct {
	Date               time.Time `json:"date"`
	OriginalOperatorID *string   `json:"original_operator_id,omitempty"`
	CoveringOperatorID string    `json:"covering_operator_id"`
}

// RotationExtendedPayload payload.
type RotationExtendedPayload struct {
	FirstWeekStart time.Time `json:"first_week_start"`
	LastWeekEnd    time.Time `json:"last_week_end"`
	WeekCount      int       `json:"week_count"`
}

// HorizonLowPayload payload.
type HorizonLowPayload struct {
	DaysRemaining int `json:"days_remaining"`
	WarnBelowDays int `json:"warn_below_days"`
}
