package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/oncall-service/internal/domain"
)

func newCalendarFixture(t *testing.T) (*CalendarService, *mockWeekRepo, *mockOverrideRepo) {
	t.Helper()
	weeks := newMockWeekRepo()
	overrides := newMockOverrideRepo()
	operators := newMockOperatorRepo(
		domain.Operator{ID: "op-alice", DisplayName: "Alice", ColorCode: "#FF0000", IsActive: true},
		domain.Operator{ID: "op-bob", DisplayName: "Bob", ColorCode: "#00FF00", IsActive: true},
		domain.Operator{ID: "op-carol", DisplayName: "Carol", ColorCode: "#0000FF", IsActive: true},
	)
	svc := NewCalendarService(CalendarDependencies{
		WeekRepo:     weeks,
		OverrideRepo: overrides,
		OperatorRepo: operators,
		Now:          func() time.Time { return fixedNow },
	})
	return svc, weeks, overrides
}

func TestProjectMonthCoversEveryDay(t *testing.T) {
	svc, weeks, _ := newCalendarFixture(t)
	require.NoError(t, weeks.CreateBatch(context.Background(), []domain.RotationWeek{
		makeWeek("op-alice", wednesday),
		makeWeek("op-bob", wednesday.AddDate(0, 0, 7)),
	}))

	cells, err := svc.ProjectMonth(context.Background(), 2026, time.September)
	require.NoError(t, err)
	require.Len(t, cells, 30)
	require.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), cells[0].Date)
	require.Equal(t, time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC), cells[29].Date)

	// Alice's week runs through Sep 1, Bob takes over on Wednesday Sep 2.
	require.Equal(t, "op-alice", cells[0].OperatorID)
	require.Equal(t, "Alice", cells[0].DisplayName)
	require.Equal(t, "#FF0000", cells[0].ColorCode)
	require.Equal(t, "op-bob", cells[1].OperatorID)

	// Bob's week ends Sep 9 exclusive; nothing covers the rest of the month.
	require.Equal(t, "op-bob", cells[7].OperatorID)
	require.Empty(t, cells[8].OperatorID)
	require.Empty(t, cells[8].Source)
}

func TestProjectRangeMatchesMonthConcatenation(t *testing.T) {
	svc, weeks, overrides := newCalendarFixture(t)
	require.NoError(t, weeks.CreateBatch(context.Background(), []domain.RotationWeek{
		makeWeek("op-alice", wednesday),
		makeWeek("op-bob", wednesday.AddDate(0, 0, 7)),
	}))
	require.NoError(t, overrides.Upsert(context.Background(), &domain.DayOverride{
		Date:               time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC),
		CoveringOperatorID: "op-carol",
		CreatedBy:          "op-carol",
	}))

	august, err := svc.ProjectMonth(context.Background(), 2026, time.August)
	require.NoError(t, err)
	september, err := svc.ProjectMonth(context.Background(), 2026, time.September)
	require.NoError(t, err)

	ranged, err := svc.ProjectRange(context.Background(),
		time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Equal(t, append(august, september...), ranged)
}

func TestProjectRangeOverrideBeatsSwappedWeek(t *testing.T) {
	svc, weeks, overrides := newCalendarFixture(t)

	swapID := uuid.NewString()
	week := makeWeek("op-bob", wednesday)
	week.SwapRequestID = &swapID
	require.NoError(t, weeks.CreateBatch(context.Background(), []domain.RotationWeek{week}))

	overrideDay := wednesday.AddDate(0, 0, 1)
	require.NoError(t, overrides.Upsert(context.Background(), &domain.DayOverride{
		Date:               overrideDay,
		CoveringOperatorID: "op-carol",
		CreatedBy:          "op-carol",
	}))

	cells, err := svc.ProjectRange(context.Background(), wednesday, wednesday.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, cells, 3)

	require.Equal(t, "op-bob", cells[0].OperatorID)
	require.Equal(t, domain.DutySourceSwap, cells[0].Source)
	require.Equal(t, "op-carol", cells[1].OperatorID)
	require.Equal(t, domain.DutySourceOverride, cells[1].Source)
	require.Equal(t, "op-bob", cells[2].OperatorID)
	require.Equal(t, domain.DutySourceSwap, cells[2].Source)
}

func TestProjectRangeDayFlags(t *testing.T) {
	svc, weeks, _ := newCalendarFixture(t)
	require.NoError(t, weeks.CreateBatch(context.Background(), []domain.RotationWeek{
		makeWeek("op-alice", wednesday.AddDate(0, 0, -7)),
	}))

	// fixedNow is Thursday 2026-08-20; the surrounding weekend is Aug 22/23.
	cells, err := svc.ProjectRange(context.Background(),
		time.Date(2026, time.August, 19, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 23, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, cells, 5)

	require.False(t, cells[0].IsToday)
	require.True(t, cells[1].IsToday)
	require.False(t, cells[1].IsWeekend)
	require.True(t, cells[3].IsWeekend)
	require.True(t, cells[4].IsWeekend)
}

func TestProjectRangeRejectsInvertedRange(t *testing.T) {
	svc, _, _ := newCalendarFixture(t)

	_, err := svc.ProjectRange(context.Background(), wednesday, wednesday.AddDate(0, 0, -1))
	requireDomainCode(t, err, "VALIDATION_FAILED")
}
