package dto

import (
	"time"

	"github.com/spec-kit/oncall-service/internal/domain"
)

// DutyResponse is the resolved on-call assignment for one date.
type DutyResponse struct {
	Date       string            `json:"date"`
	OperatorID string            `json:"operator_id"`
	Source     domain.DutySource `json:"source"`
}

// NewDutyResponse maps the domain assignment.
func NewDutyResponse(a *domain.DutyAssignment) DutyResponse {
	return DutyResponse{
		Date:       a.Date.Format("2006-01-02"),
		OperatorID: a.OperatorID,
		Source:     a.Source,
	}
}

// GenerateWeeksRequest asks the planner to extend the rotation.
type GenerateWeeksRequest struct {
	OperatorSequence []string `json:"operator_sequence"`
	StartDate        string   `json:"start_date"`
	Count            int      `json:"count"`
}

// RotationWeekResponse mirrors a rotation week.
type RotationWeekResponse struct {
	ID         string    `json:"id"`
	OperatorID string    `json:"operator_id"`
	WeekStart  time.Time `json:"week_start"`
	WeekEnd    time.Time `json:"week_end"`
	WeekNumber int       `json:"week_number"`
	Year       int       `json:"year"`
	Swapped    bool      `json:"swapped"`
}

// NewRotationWeekResponse maps the domain entity.
func NewRotationWeekResponse(w *domain.RotationWeek) RotationWeekResponse {
	return RotationWeekResponse{
		ID:         w.ID,
		OperatorID: w.OperatorID,
		WeekStart:  w.WeekStart,
		WeekEnd:    w.WeekEnd,
		WeekNumber: w.WeekNumber,
		Year:       w.Year,
		Swapped:    w.Swapped(),
	}
}

// CreateOverrideRequest assigns a single day's coverage.
type CreateOverrideRequest struct {
	Date               string `json:"date"`
	CoveringOperatorID string `json:"covering_operator_id"`
}

// OverrideResponse mirrors a day override.
type OverrideResponse struct {
	ID                 string    `json:"id"`
	Date               string    `json:"date"`
	OriginalOperatorID *string   `json:"original_operator_id,omitempty"`
	CoveringOperatorID string    `json:"covering_operator_id"`
	CreatedBy          string    `json:"created_by"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewOverrideResponse maps the domain entity.
func NewOverrideResponse(o *domain.DayOverride) OverrideResponse {
	return OverrideResponse{
		ID:                 o.ID,
		Date:               o.Date.Format("2006-01-02"),
		OriginalOperatorID: o.OriginalOperatorID,
		CoveringOperatorID: o.CoveringOperatorID,
		CreatedBy:          o.CreatedBy,
		CreatedAt:          o.CreatedAt,
	}
}
