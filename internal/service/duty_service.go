package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/repository"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// DutyService resolves who is on call for a given date by applying the
// precedence chain: day override, then the rotation week containing the date
// (post-swap ownership), else an explicit unassigned error. Read-only and
// deterministic for identical store state; the live display and the bulk
// calendar projection must agree day for day.
type DutyService struct {
	weeks     repository.RotationWeekRepository
	overrides repository.DayOverrideRepository
}

// DutyDependencies bundles repositories for duty resolution.
type DutyDependencies struct {
	WeekRepo     repository.RotationWeekRepository
	OverrideRepo repository.DayOverrideRepository
}

// NewDutyService constructs the service.
func NewDutyService(deps DutyDependencies) *DutyService {
	return &DutyService{
		weeks:     deps.WeekRepo,
		overrides: deps.OverrideRepo,
	}
}

// ResolveDutyFor returns the single operator responsible for the given date.
func (s *DutyService) ResolveDutyFor(ctx context.Context, date time.Time) (*domain.DutyAssignment, error) {
	day := domain.DateOnly(date)

	override, err := s.overrides.GetByDate(ctx, day)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if override != nil {
		return &domain.DutyAssignment{
			Date:       day,
			OperatorID: override.CoveringOperatorID,
			Source:     domain.DutySourceOverride,
		}, nil
	}

	week, err := s.weeks.FindCovering(ctx, day)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnassignedDuty(day.Format("2006-01-02"))
		}
		return nil, apperrors.MapError(err)
	}

	source := domain.DutySourceRotation
	if week.Swapped() {
		source = domain.DutySourceSwap
	}
	return &domain.DutyAssignment{
		Date:       day,
		OperatorID: week.OperatorID,
		Source:     source,
	}, nil
}
