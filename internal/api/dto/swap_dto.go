package dto

import (
	"time"

	"github.com/spec-kit/oncall-service/internal/domain"
)

// CreateSwapRequest is the payload for filing a swap.
type CreateSwapRequest struct {
	WeekStart string `json:"week_start"`
	TargetID  string `json:"target_id"`
	Reason    string `json:"reason"`
}

// RejectSwapRequest carries the optional rejection reason.
type RejectSwapRequest struct {
	Reason string `json:"reason"`
}

// SwapResponse mirrors a swap request.
type SwapResponse struct {
	ID              string            `json:"id"`
	RequesterID     string            `json:"requester_id"`
	TargetID        string            `json:"target_id"`
	WeekStart       time.Time         `json:"week_start"`
	WeekEnd         time.Time         `json:"week_end"`
	Reason          string            `json:"reason,omitempty"`
	Status          domain.SwapStatus `json:"status"`
	RequestedAt     time.Time         `json:"requested_at"`
	RespondedAt     *time.Time        `json:"responded_at,omitempty"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
}

// NewSwapResponse maps the domain entity.
func NewSwapResponse(req *domain.SwapRequest) SwapResponse {
	return SwapResponse{
		ID:              req.ID,
		RequesterID:     req.RequesterID,
		TargetID:        req.TargetID,
		WeekStart:       req.WeekStart,
		WeekEnd:         req.WeekEnd,
		Reason:          req.Reason,
		Status:          req.Status,
		RequestedAt:     req.RequestedAt,
		RespondedAt:     req.RespondedAt,
		RejectionReason: req.RejectionReason,
	}
}
