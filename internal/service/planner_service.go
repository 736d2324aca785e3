package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/oncall-service/internal/config"
	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/events"
	"github.com/spec-kit/oncall-service/internal/repository"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// PlannerService extends the base rotation and measures the planning horizon.
// It only ever appends weeks beyond the current last one; existing weeks are
// never shortened or deleted.
type PlannerService struct {
	weeks      repository.RotationWeekRepository
	operators  repository.OperatorRepository
	dispatcher events.Dispatcher
	cfg        config.RotationConfig
	now        func() time.Time
}

// PlannerDependencies bundles repositories for the planner.
type PlannerDependencies struct {
	WeekRepo     repository.RotationWeekRepository
	OperatorRepo repository.OperatorRepository
	Dispatcher   events.Dispatcher
	Now          func() time.Time
}

// NewPlannerService constructs the service.
func NewPlannerService(cfg config.RotationConfig, deps PlannerDependencies) *PlannerService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &PlannerService{
		weeks:      deps.WeekRepo,
		operators:  deps.OperatorRepo,
		dispatcher: deps.Dispatcher,
		cfg:        cfg,
		now:        now,
	}
}

// GenerateWeeks assigns the ordered operator list round-robin to count
// consecutive Wednesday-to-Wednesday windows, starting at the first rotation
// boundary on or after startDate that lies beyond the current last week.
func (s *PlannerService) GenerateWeeks(ctx context.Context, operatorSequence []string, startDate time.Time, count int) ([]domain.RotationWeek, error) {
	if count <= 0 {
		return nil, apperrors.NewValidationError("count must be positive", map[string]any{"count": count})
	}
	if len(operatorSequence) == 0 {
		return nil, apperrors.NewValidationError("operator sequence is empty", nil)
	}
	for _, operatorID := range operatorSequence {
		op, err := s.operators.GetByID(ctx, operatorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("operator", map[string]any{"operator_id": operatorID})
			}
			return nil, apperrors.MapError(err)
		}
		if !op.IsActive {
			return nil, apperrors.NewValidationError("operator sequence contains a deactivated operator", map[string]any{
				"operator_id": operatorID,
			})
		}
	}

	anchor := domain.NextRotationBoundary(startDate)
	lastEnd, err := s.weeks.LastWeekEnd(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if lastEnd != nil && domain.DateOnly(*lastEnd).After(anchor) {
		// Regeneration only appends: pick up where the rotation already ends.
		anchor = domain.DateOnly(*lastEnd)
	}

	generated := make([]domain.RotationWeek, 0, count)
	for i := 0; i < count; i++ {
		weekStart := anchor.AddDate(0, 0, 7*i)
		weekEnd := weekStart.AddDate(0, 0, 7)
		year, weekNumber := weekStart.ISOWeek()
		generated = append(generated, domain.RotationWeek{
			ID:         uuid.NewString(),
			OperatorID: operatorSequence[i%len(operatorSequence)],
			WeekStart:  weekStart,
			WeekEnd:    weekEnd,
			WeekNumber: weekNumber,
			Year:       year,
		})
	}

	if err := s.weeks.CreateBatch(ctx, generated); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventRotationExtended,
			Timestamp: s.now(),
			Payload: events.RotationExtendedPayload{
				FirstWeekStart: generated[0].WeekStart,
				LastWeekEnd:    generated[len(generated)-1].WeekEnd,
				WeekCount:      len(generated),
			},
		})
	}
	return generated, nil
}

// DaysRemaining reports how many days of base rotation coverage remain after
// now. It scans the full future horizon and takes the true maximum week end:
// rotations may be generated in more than one batch with gaps, so the first
// week found is never enough.
func (s *PlannerService) DaysRemaining(ctx context.Context, now time.Time) (int, error) {
	horizonMonths := s.cfg.HorizonMonths
	if horizonMonths <= 0 {
		horizonMonths = 24
	}
	until := domain.DateOnly(now).AddDate(0, horizonMonths, 0)

	future, err := s.weeks.ListEndingAfter(ctx, now, until)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if len(future) == 0 {
		return 0, nil
	}

	lastEnd := future[0].WeekEnd
	for _, w := range future[1:] {
		if w.WeekEnd.After(lastEnd) {
			lastEnd = w.WeekEnd
		}
	}

	days := domain.DaysBetween(now, lastEnd)
	if days < 0 {
		return 0, nil
	}
	return days, nil
}
