package domain

import "time"

// DutySource tags why an operator was selected for a date.
type DutySource string

const (
	DutySourceOverride DutySource = "override"
	DutySourceSwap     DutySource = "swap"
	DutySourceRotation DutySource = "rotation"
)

// DutyAssignment is the result of resolving on-call duty for a single date.
type DutyAssignment struct {
	Date       time.Time  `json:"date"`
	OperatorID string     `json:"operator_id"`
	Source     DutySource `json:"source"`
}

// DayCell is one projected calendar day with display metadata attached.
type DayCell struct {
	Date        time.Time  `json:"date"`
	OperatorID  string     `json:"operator_id"`
	DisplayName string     `json:"display_name"`
	ColorCode   string     `json:"color_code"`
	Source      DutySource `json:"source"`
	IsToday     bool       `json:"is_today"`
	IsWeekend   bool       `json:"is_weekend"`
}
