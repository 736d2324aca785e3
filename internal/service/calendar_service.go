package service

import (
	"context"
	"time"

	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/repository"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// CalendarService materializes the schedule into per-day cells for the UI
// calendar and the export path. It owns no state; per-day outcomes follow the
// same precedence as DutyService, computed against a snapshot fetched once
// per projection so a full-year export is not O(days) queries.
type CalendarService struct {
	weeks     repository.RotationWeekRepository
	overrides repository.DayOverrideRepository
	operators repository.OperatorRepository
	now       func() time.Time
}

// CalendarDependencies bundles repositories for projections.
type CalendarDependencies struct {
	WeekRepo     repository.RotationWeekRepository
	OverrideRepo repository.DayOverrideRepository
	OperatorRepo repository.OperatorRepository
	Now          func() time.Time
}

// NewCalendarService constructs the service.
func NewCalendarService(deps CalendarDependencies) *CalendarService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &CalendarService{
		weeks:     deps.WeekRepo,
		overrides: deps.OverrideRepo,
		operators: deps.OperatorRepo,
		now:       now,
	}
}

// ProjectMonth projects every day of the given month.
func (s *CalendarService) ProjectMonth(ctx context.Context, year int, month time.Month) ([]domain.DayCell, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return s.ProjectRange(ctx, first, last)
}

// ProjectRange projects every day in [start, end]. Results are identical to
// concatenating ProjectMonth over the constituent months.
func (s *CalendarService) ProjectRange(ctx context.Context, start, end time.Time) ([]domain.DayCell, error) {
	startDay := domain.DateOnly(start)
	endDay := domain.DateOnly(end)
	if endDay.Before(startDay) {
		return nil, apperrors.NewValidationError("range end precedes start", map[string]any{
			"start": startDay.Format("2006-01-02"),
			"end":   endDay.Format("2006-01-02"),
		})
	}

	snap, err := s.loadSnapshot(ctx, startDay, endDay)
	if err != nil {
		return nil, err
	}

	today := domain.DateOnly(s.now())
	cells := make([]domain.DayCell, 0, domain.DaysBetween(startDay, endDay)+1)
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		assignment := snap.resolve(day)
		cell := domain.DayCell{
			Date:      day,
			IsToday:   day.Equal(today),
			IsWeekend: day.Weekday() == time.Saturday || day.Weekday() == time.Sunday,
		}
		if assignment != nil {
			cell.OperatorID = assignment.OperatorID
			cell.Source = assignment.Source
			if op, ok := snap.operators[assignment.OperatorID]; ok {
				cell.DisplayName = op.DisplayName
				cell.ColorCode = op.ColorCode
			}
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

// scheduleSnapshot is a fixed view of the stores for one projection window.
type scheduleSnapshot struct {
	weeks     []domain.RotationWeek
	overrides map[time.Time]domain.DayOverride
	operators map[string]domain.Operator
}

func (s *CalendarService) loadSnapshot(ctx context.Context, start, end time.Time) (*scheduleSnapshot, error) {
	weeks, err := s.weeks.ListRange(ctx, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	overrides, err := s.overrides.ListRange(ctx, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	operators, err := s.operators.List(ctx, false)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	snap := &scheduleSnapshot{
		weeks:     weeks,
		overrides: make(map[time.Time]domain.DayOverride, len(overrides)),
		operators: make(map[string]domain.Operator, len(operators)),
	}
	for _, o := range overrides {
		snap.overrides[domain.DateOnly(o.Date)] = o
	}
	for _, op := range operators {
		snap.operators[op.ID] = op
	}
	return snap, nil
}

// resolve applies the override > swap > rotation precedence against the
// snapshot. A nil result means no coverage: the cell stays unassigned rather
// than silently defaulting to anyone.
func (s *scheduleSnapshot) resolve(day time.Time) *domain.DutyAssignment {
	if o, ok := s.overrides[day]; ok {
		return &domain.DutyAssignment{Date: day, OperatorID: o.CoveringOperatorID, Source: domain.DutySourceOverride}
	}
	for _, w := range s.weeks {
		if w.Contains(day) {
			source := domain.DutySourceRotation
			if w.Swapped() {
				source = domain.DutySourceSwap
			}
			return &domain.DutyAssignment{Date: day, OperatorID: w.OperatorID, Source: source}
		}
	}
	return nil
}
