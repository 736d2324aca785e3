package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/oncall-service/internal/config"
	"github.com/spec-kit/oncall-service/internal/domain"
)

func newPlannerFixture(weeks *mockWeekRepo) *PlannerService {
	operators := newMockOperatorRepo(
		domain.Operator{ID: "op-alice", IsActive: true},
		domain.Operator{ID: "op-bob", IsActive: true},
		domain.Operator{ID: "op-carol", IsActive: true},
		domain.Operator{ID: "op-gone", IsActive: false},
	)
	return NewPlannerService(config.RotationConfig{HorizonMonths: 24}, PlannerDependencies{
		WeekRepo:     weeks,
		OperatorRepo: operators,
		Now:          func() time.Time { return fixedNow },
	})
}

func TestGenerateWeeksRoundRobinFromBoundary(t *testing.T) {
	weeks := newMockWeekRepo()
	planner := newPlannerFixture(weeks)

	// A Monday start snaps forward to the next Wednesday.
	monday := wednesday.AddDate(0, 0, -2)
	generated, err := planner.GenerateWeeks(context.Background(), []string{"op-alice", "op-bob"}, monday, 5)
	require.NoError(t, err)
	require.Len(t, generated, 5)

	require.Equal(t, wednesday, generated[0].WeekStart)
	for i, w := range generated {
		require.Equal(t, time.Wednesday, w.WeekStart.Weekday())
		require.Equal(t, w.WeekStart.AddDate(0, 0, 7), w.WeekEnd)
		if i > 0 {
			require.Equal(t, generated[i-1].WeekEnd, w.WeekStart, "weeks must be contiguous")
		}
	}

	require.Equal(t, "op-alice", generated[0].OperatorID)
	require.Equal(t, "op-bob", generated[1].OperatorID)
	require.Equal(t, "op-alice", generated[2].OperatorID)
	require.Equal(t, "op-bob", generated[3].OperatorID)
	require.Equal(t, "op-alice", generated[4].OperatorID)

	year, weekNumber := generated[0].WeekStart.ISOWeek()
	require.Equal(t, year, generated[0].Year)
	require.Equal(t, weekNumber, generated[0].WeekNumber)
}

func TestGenerateWeeksAppendsAfterExistingRotation(t *testing.T) {
	weeks := newMockWeekRepo()
	planner := newPlannerFixture(weeks)

	_, err := planner.GenerateWeeks(context.Background(), []string{"op-alice", "op-bob"}, wednesday, 4)
	require.NoError(t, err)

	// Asking to start inside the existing rotation picks up at its end
	// instead of rewriting assigned weeks.
	more, err := planner.GenerateWeeks(context.Background(), []string{"op-carol"}, wednesday, 2)
	require.NoError(t, err)
	require.Equal(t, wednesday.AddDate(0, 0, 28), more[0].WeekStart)
	require.Equal(t, "op-carol", more[0].OperatorID)

	early, err := weeks.FindByStart(context.Background(), wednesday)
	require.NoError(t, err)
	require.Equal(t, "op-alice", early.OperatorID)
}

func TestGenerateWeeksValidation(t *testing.T) {
	planner := newPlannerFixture(newMockWeekRepo())

	_, err := planner.GenerateWeeks(context.Background(), []string{"op-alice"}, wednesday, 0)
	requireDomainCode(t, err, "VALIDATION_FAILED")

	_, err = planner.GenerateWeeks(context.Background(), nil, wednesday, 3)
	requireDomainCode(t, err, "VALIDATION_FAILED")

	_, err = planner.GenerateWeeks(context.Background(), []string{"op-unknown"}, wednesday, 3)
	requireDomainCode(t, err, "NOT_FOUND")

	_, err = planner.GenerateWeeks(context.Background(), []string{"op-alice", "op-gone"}, wednesday, 3)
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestDaysRemainingEmptyRotation(t *testing.T) {
	planner := newPlannerFixture(newMockWeekRepo())

	days, err := planner.DaysRemaining(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Equal(t, 0, days)
}

func TestDaysRemainingSpansBatchGaps(t *testing.T) {
	weeks := newMockWeekRepo()
	planner := newPlannerFixture(weeks)

	// Two generation batches with a gap in between. The horizon must reach
	// the true last week end, not the end of the first contiguous run.
	require.NoError(t, weeks.CreateBatch(context.Background(), []domain.RotationWeek{
		makeWeek("op-alice", wednesday),
		makeWeek("op-bob", wednesday.AddDate(0, 0, 42)),
	}))

	days, err := planner.DaysRemaining(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Equal(t, domain.DaysBetween(fixedNow, wednesday.AddDate(0, 0, 49)), days)
}

func TestDaysRemainingIgnoresPastWeeks(t *testing.T) {
	weeks := newMockWeekRepo()
	planner := newPlannerFixture(weeks)

	require.NoError(t, weeks.CreateBatch(context.Background(), []domain.RotationWeek{
		makeWeek("op-alice", wednesday.AddDate(0, 0, -70)),
	}))

	days, err := planner.DaysRemaining(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Equal(t, 0, days)
}
