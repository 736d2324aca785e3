package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/oncall-service/internal/config"
	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/events"
	"github.com/spec-kit/oncall-service/internal/repository"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// SwapService runs the swap request state machine: PENDING to APPROVED or
// REJECTED, both terminal. Approval permanently reassigns the named week in
// the base rotation.
type SwapService struct {
	swaps      repository.SwapRequestRepository
	weeks      repository.RotationWeekRepository
	operators  repository.OperatorRepository
	escalation repository.EscalationRepository
	dispatcher events.Dispatcher
	cfg        config.RotationConfig
	now        func() time.Time
}

// SwapDependencies bundles repositories for the swap workflow.
type SwapDependencies struct {
	SwapRepo       repository.SwapRequestRepository
	WeekRepo       repository.RotationWeekRepository
	OperatorRepo   repository.OperatorRepository
	EscalationRepo repository.EscalationRepository
	Dispatcher     events.Dispatcher
	Now            func() time.Time
}

// SwapCreateInput describes a swap request payload.
type SwapCreateInput struct {
	WeekStart time.Time
	TargetID  string
	Reason    string
}

// NewSwapService constructs the service.
func NewSwapService(cfg config.RotationConfig, deps SwapDependencies) *SwapService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &SwapService{
		swaps:      deps.SwapRepo,
		weeks:      deps.WeekRepo,
		operators:  deps.OperatorRepo,
		escalation: deps.EscalationRepo,
		dispatcher: deps.Dispatcher,
		cfg:        cfg,
		now:        now,
	}
}

// CreateSwap files a pending swap request for the named week.
func (s *SwapService) CreateSwap(ctx context.Context, requesterID string, input SwapCreateInput) (*domain.SwapRequest, error) {
	if requesterID == input.TargetID {
		return nil, apperrors.NewValidationError("cannot swap a week with yourself", nil)
	}

	week, err := s.weeks.FindByStart(ctx, input.WeekStart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("rotation week", map[string]any{"week_start": input.WeekStart.Format("2006-01-02")})
		}
		return nil, apperrors.MapError(err)
	}

	target, err := s.operators.GetByID(ctx, input.TargetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("operator", map[string]any{"operator_id": input.TargetID})
		}
		return nil, apperrors.MapError(err)
	}
	if !target.IsActive {
		return nil, apperrors.NewValidationError("target operator is deactivated", map[string]any{"operator_id": target.ID})
	}

	isEscalation, err := s.escalation.IsMember(ctx, requesterID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !isEscalation && week.OperatorID != requesterID {
		return nil, apperrors.NewValidationError("requester does not own the week being swapped", map[string]any{
			"week_start": week.WeekStart.Format("2006-01-02"),
		})
	}

	minDays := s.cfg.MinDaysForSwapRequest
	if isEscalation {
		minDays = s.cfg.MinDaysForEscalationModify
	}
	if daysUntil := domain.DaysBetween(s.now(), week.WeekStart); daysUntil < minDays {
		return nil, apperrors.NewValidationError("week starts too soon to swap", map[string]any{
			"days_until": daysUntil,
			"min_days":   minDays,
		})
	}

	req := &domain.SwapRequest{
		RequesterID: requesterID,
		TargetID:    input.TargetID,
		WeekStart:   domain.DateOnly(week.WeekStart),
		WeekEnd:     domain.DateOnly(week.WeekEnd),
		Reason:      strings.TrimSpace(input.Reason),
		Status:      domain.SwapStatusPending,
	}
	if err := s.swaps.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, requesterID, events.Event{
		Type: events.EventSwapRequested,
		Payload: events.SwapRequestedPayload{
			SwapRequestID: req.ID,
			RequesterID:   req.RequesterID,
			TargetID:      req.TargetID,
			WeekStart:     req.WeekStart,
			Reason:        req.Reason,
		},
	})
	return req, nil
}

// Approve transitions a pending request to approved and swaps the named
// week's operator between requester and target. The status flip and the week
// reassignment commit in one transaction; of two concurrent approvals exactly
// one succeeds and the other gets an invalid-state error.
func (s *SwapService) Approve(ctx context.Context, requestID, actingUserID string) (*domain.SwapRequest, error) {
	req, err := s.getForDecision(ctx, requestID, actingUserID)
	if err != nil {
		return nil, err
	}

	week, err := s.weeks.FindByStart(ctx, req.WeekStart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("rotation week", map[string]any{"week_start": req.WeekStart.Format("2006-01-02")})
		}
		return nil, apperrors.MapError(err)
	}

	// Exchange: the week goes to whichever party does not currently hold it.
	newOperatorID := req.TargetID
	if week.OperatorID == req.TargetID {
		newOperatorID = req.RequesterID
	}

	respondedAt := s.now()
	ok, err := s.swaps.ApproveAndReassign(ctx, req.ID, respondedAt, req.WeekStart, newOperatorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !ok {
		return nil, apperrors.NewInvalidState("swap request already resolved", map[string]any{"swap_request_id": req.ID})
	}

	req.Status = domain.SwapStatusApproved
	req.RespondedAt = &respondedAt

	s.publish(ctx, actingUserID, events.Event{
		Type: events.EventSwapApproved,
		Payload: events.SwapResolvedPayload{
			SwapRequestID: req.ID,
			RequesterID:   req.RequesterID,
			TargetID:      req.TargetID,
			WeekStart:     req.WeekStart,
			NewOperatorID: newOperatorID,
		},
	})
	return req, nil
}

// Reject transitions a pending request to rejected; the rotation is left
// untouched.
func (s *SwapService) Reject(ctx context.Context, requestID, actingUserID string, reason string) (*domain.SwapRequest, error) {
	req, err := s.getForDecision(ctx, requestID, actingUserID)
	if err != nil {
		return nil, err
	}

	respondedAt := s.now()
	var reasonPtr *string
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		reasonPtr = &trimmed
	}

	ok, err := s.swaps.MarkRejected(ctx, req.ID, respondedAt, reasonPtr)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !ok {
		return nil, apperrors.NewInvalidState("swap request already resolved", map[string]any{"swap_request_id": req.ID})
	}

	req.Status = domain.SwapStatusRejected
	req.RespondedAt = &respondedAt
	req.RejectionReason = reasonPtr

	s.publish(ctx, actingUserID, events.Event{
		Type: events.EventSwapRejected,
		Payload: events.SwapResolvedPayload{
			SwapRequestID:   req.ID,
			RequesterID:     req.RequesterID,
			TargetID:        req.TargetID,
			WeekStart:       req.WeekStart,
			RejectionReason: strings.TrimSpace(reason),
		},
	})
	return req, nil
}

// ListPendingForTarget returns open requests awaiting the operator's decision.
func (s *SwapService) ListPendingForTarget(ctx context.Context, operatorID string) ([]domain.SwapRequest, error) {
	return s.swaps.ListWithFilter(ctx, repository.SwapFilter{
		TargetID: &operatorID,
		Statuses: []domain.SwapStatus{domain.SwapStatusPending},
	})
}

// ListMine returns requests the operator filed, in any state.
func (s *SwapService) ListMine(ctx context.Context, operatorID string) ([]domain.SwapRequest, error) {
	return s.swaps.ListWithFilter(ctx, repository.SwapFilter{RequesterID: &operatorID})
}

// ListHistory returns terminal requests where the operator was either party.
// The three listing views overlap; they are filters over one request set, not
// separate stores.
func (s *SwapService) ListHistory(ctx context.Context, operatorID string) ([]domain.SwapRequest, error) {
	terminal := []domain.SwapStatus{domain.SwapStatusApproved, domain.SwapStatusRejected}

	asRequester, err := s.swaps.ListWithFilter(ctx, repository.SwapFilter{RequesterID: &operatorID, Statuses: terminal})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	asTarget, err := s.swaps.ListWithFilter(ctx, repository.SwapFilter{TargetID: &operatorID, Statuses: terminal})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	seen := make(map[string]struct{}, len(asRequester))
	merged := make([]domain.SwapRequest, 0, len(asRequester)+len(asTarget))
	for _, req := range asRequester {
		seen[req.ID] = struct{}{}
		merged = append(merged, req)
	}
	for _, req := range asTarget {
		if _, dup := seen[req.ID]; !dup {
			merged = append(merged, req)
		}
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].RequestedAt.After(merged[j].RequestedAt)
	})
	return merged, nil
}

func (s *SwapService) getForDecision(ctx context.Context, requestID, actingUserID string) (*domain.SwapRequest, error) {
	req, err := s.swaps.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("swap request", map[string]any{"swap_request_id": requestID})
		}
		return nil, apperrors.MapError(err)
	}

	if actingUserID != req.TargetID {
		isEscalation, err := s.escalation.IsMember(ctx, actingUserID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !isEscalation {
			return nil, apperrors.NewForbidden("only the target operator or an escalation member may decide this request")
		}
	}

	if req.Status.Terminal() {
		return nil, apperrors.NewInvalidState("swap request already resolved", map[string]any{
			"swap_request_id": req.ID,
			"status":          req.Status,
		})
	}
	return req, nil
}

func (s *SwapService) publish(ctx context.Context, actorID string, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.ActorID = actorID
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
