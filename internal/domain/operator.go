package domain

import "time"

// OperatorRole enumerates operator account roles.
type OperatorRole string

const (
	RoleOperator OperatorRole = "OPERATOR"
	RoleAdmin    OperatorRole = "ADMIN"
)

// Operator models a DBA who takes part in the on-call rotation.
type Operator struct {
	ID            string
	DisplayName   string
	DomainAccount string
	Email         string
	PhoneNumber   string
	ColorCode     string
	Role          OperatorRole
	PasswordHash  string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EscalationMember records membership in the escalation set. Membership is a
// set, not a rotation: any member may override any day regardless of whose
// week it is.
type EscalationMember struct {
	OperatorID string
	AddedBy    string
	AddedAt    time.Time
}
