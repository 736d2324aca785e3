package domain

import "time"

// DayOverride reassigns a single calendar day's coverage outside the normal
// rotation. Only escalation members create overrides; re-overriding the same
// date is last-write-wins.
type DayOverride struct {
	ID                 string
	Date               time.Time
	OriginalOperatorID *string
	CoveringOperatorID string
	CreatedBy          string
	CreatedAt          time.Time
}
