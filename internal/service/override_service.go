package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/events"
	"github.com/spec-kit/oncall-service/internal/repository"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// OverrideService creates and lists escalation-authored day overrides, the
// highest-precedence coverage mechanism.
type OverrideService struct {
	overrides  repository.DayOverrideRepository
	weeks      repository.RotationWeekRepository
	operators  repository.OperatorRepository
	escalation repository.EscalationRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// OverrideDependencies bundles repositories for override management.
type OverrideDependencies struct {
	OverrideRepo   repository.DayOverrideRepository
	WeekRepo       repository.RotationWeekRepository
	OperatorRepo   repository.OperatorRepository
	EscalationRepo repository.EscalationRepository
	Dispatcher     events.Dispatcher
	Now            func() time.Time
}

// NewOverrideService constructs the service.
func NewOverrideService(deps OverrideDependencies) *OverrideService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &OverrideService{
		overrides:  deps.OverrideRepo,
		weeks:      deps.WeekRepo,
		operators:  deps.OperatorRepo,
		escalation: deps.EscalationRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// CreateOverride assigns a single day's coverage outside the rotation.
// Re-overriding the same date replaces the earlier override.
func (s *OverrideService) CreateOverride(ctx context.Context, actorID string, date time.Time, coveringOperatorID string) (*domain.DayOverride, error) {
	isEscalation, err := s.escalation.IsMember(ctx, actorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !isEscalation {
		return nil, apperrors.NewForbidden("only escalation members may override a day")
	}

	covering, err := s.operators.GetByID(ctx, coveringOperatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("operator", map[string]any{"operator_id": coveringOperatorID})
		}
		return nil, apperrors.MapError(err)
	}
	if !covering.IsActive {
		return nil, apperrors.NewValidationError("covering operator is deactivated", map[string]any{"operator_id": covering.ID})
	}

	day := domain.DateOnly(date)

	// Record whose week this was; informational only, resolution never reads it.
	var originalOperatorID *string
	if week, err := s.weeks.FindCovering(ctx, day); err == nil {
		originalOperatorID = &week.OperatorID
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	override := &domain.DayOverride{
		Date:               day,
		OriginalOperatorID: originalOperatorID,
		CoveringOperatorID: coveringOperatorID,
		CreatedBy:          actorID,
	}
	if err := s.overrides.Upsert(ctx, override); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventOverrideCreated,
			ActorID:   actorID,
			Timestamp: s.now(),
			Payload: events.OverrideCreatedPayload{
				Date:               override.Date,
				OriginalOperatorID: override.OriginalOperatorID,
				CoveringOperatorID: override.CoveringOperatorID,
			},
		})
	}
	return override, nil
}

// ListRange returns overrides between the two dates inclusive.
func (s *OverrideService) ListRange(ctx context.Context, start, end time.Time) ([]domain.DayOverride, error) {
	overrides, err := s.overrides.ListRange(ctx, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return overrides, nil
}
