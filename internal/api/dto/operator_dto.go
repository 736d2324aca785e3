package dto

import (
	"time"

	"github.com/spec-kit/oncall-service/internal/domain"
)

// LoginRequest authenticates an operator.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Operator  OperatorResponse `json:"operator"`
}

// ChangePasswordRequest rotates a password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// CreateOperatorRequest registers an operator.
type CreateOperatorRequest struct {
	DisplayName   string `json:"display_name"`
	DomainAccount string `json:"domain_account"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number"`
	ColorCode     string `json:"color_code"`
	Role          string `json:"role"`
	Password      string `json:"password"`
}

// OperatorResponse mirrors an operator without credentials.
type OperatorResponse struct {
	ID            string              `json:"id"`
	DisplayName   string              `json:"display_name"`
	DomainAccount string              `json:"domain_account,omitempty"`
	Email         string              `json:"email"`
	PhoneNumber   string              `json:"phone_number,omitempty"`
	ColorCode     string              `json:"color_code,omitempty"`
	Role          domain.OperatorRole `json:"role"`
	IsActive      bool                `json:"is_active"`
	CreatedAt     time.Time           `json:"created_at"`
}

// NewOperatorResponse maps the domain entity.
func NewOperatorResponse(op *domain.Operator) OperatorResponse {
	return OperatorResponse{
		ID:            op.ID,
		DisplayName:   op.DisplayName,
		DomainAccount: op.DomainAccount,
		Email:         op.Email,
		PhoneNumber:   op.PhoneNumber,
		ColorCode:     op.ColorCode,
		Role:          op.Role,
		IsActive:      op.IsActive,
		CreatedAt:     op.CreatedAt,
	}
}

// EscalationMemberResponse mirrors escalation membership.
type EscalationMemberResponse struct {
	OperatorID string    `json:"operator_id"`
	AddedBy    string    `json:"added_by"`
	AddedAt    time.Time `json:"added_at"`
}

// AddEscalationMemberRequest grants override authority.
type AddEscalationMemberRequest struct {
	OperatorID string `json:"operator_id"`
}
