package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/oncall-service/internal/config"
	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/events"
)

type swapFixture struct {
	svc        *SwapService
	weeks      *mockWeekRepo
	swaps      *mockSwapRepo
	operators  *mockOperatorRepo
	escalation *mockEscalationRepo
	dispatcher events.Dispatcher
	published  *[]events.Event
}

var fixedNow = time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

func newSwapFixture(t *testing.T) *swapFixture {
	t.Helper()

	weeks := newMockWeekRepo()
	swaps := newMockSwapRepo(weeks)
	operators := newMockOperatorRepo(
		domain.Operator{ID: "op-alice", DisplayName: "Alice", IsActive: true},
		domain.Operator{ID: "op-bob", DisplayName: "Bob", IsActive: true},
		domain.Operator{ID: "op-carol", DisplayName: "Carol", IsActive: true},
		domain.Operator{ID: "op-gone", DisplayName: "Gone", IsActive: false},
	)
	escalation := newMockEscalationRepo("op-carol")

	dispatcher := events.NewInMemoryDispatcher()
	published := &[]events.Event{}
	var mu sync.Mutex
	capture := func(_ context.Context, event events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		*published = append(*published, event)
		return nil
	}
	dispatcher.Subscribe(events.EventSwapRequested, capture)
	dispatcher.Subscribe(events.EventSwapApproved, capture)
	dispatcher.Subscribe(events.EventSwapRejected, capture)

	cfg := config.RotationConfig{MinDaysForSwapRequest: 7, MinDaysForEscalationModify: 0}
	svc := NewSwapService(cfg, SwapDependencies{
		SwapRepo:       swaps,
		WeekRepo:       weeks,
		OperatorRepo:   operators,
		EscalationRepo: escalation,
		Dispatcher:     dispatcher,
		Now:            func() time.Time { return fixedNow },
	})

	return &swapFixture{
		svc:        svc,
		weeks:      weeks,
		swaps:      swaps,
		operators:  operators,
		escalation: escalation,
		dispatcher: dispatcher,
		published:  published,
	}
}

// seedWeek stores a rotation week owned by operatorID and returns its start.
func (f *swapFixture) seedWeek(t *testing.T, operatorID string, start time.Time) time.Time {
	t.Helper()
	require.NoError(t, f.weeks.CreateBatch(context.Background(), []domain.RotationWeek{
		makeWeek(operatorID, start),
	}))
	return start
}

func TestCreateSwapPending(t *testing.T) {
	f := newSwapFixture(t)
	start := f.seedWeek(t, "op-alice", wednesday.AddDate(0, 0, 7))

	req, err := f.svc.CreateSwap(context.Background(), "op-alice", SwapCreateInput{
		WeekStart: start,
		TargetID:  "op-bob",
		Reason:    "vacation",
	})
	require.NoError(t, err)
	require.Equal(t, domain.SwapStatusPending, req.Status)
	require.Equal(t, "op-alice", req.RequesterID)
	require.Equal(t, "op-bob", req.TargetID)
	require.Nil(t, req.RespondedAt)

	require.Len(t, *f.published, 1)
	require.Equal(t, events.EventSwapRequested, (*f.published)[0].Type)
}

func TestCreateSwapSelfSwapRejected(t *testing.T) {
	f := newSwapFixture(t)
	start := f.seedWeek(t, "op-alice", wednesday.AddDate(0, 0, 7))

	_, err := f.svc.CreateSwap(context.Background(), "op-alice", SwapCreateInput{
		WeekStart: start,
		TargetID:  "op-alice",
	})
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestCreateSwapUnknownWeek(t *testing.T) {
	f := newSwapFixture(t)

	_, err := f.svc.CreateSwap(context.Background(), "op-alice", SwapCreateInput{
		WeekStart: wednesday.AddDate(0, 0, 7),
		TargetID:  "op-bob",
	})
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestCreateSwapRequiresWeekOwnership(t *testing.T) {
	f := newSwapFixture(t)
	start := f.seedWeek(t, "op-bob", wednesday.AddDate(0, 0, 7))

	_, err := f.svc.CreateSwap(context.Background(), "op-alice", SwapCreateInput{
		WeekStart: start,
		TargetID:  "op-bob",
	})
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestCreateSwapEscalationMayFileForOthersWeek(t *testing.T) {
	f := newSwapFixture(t)
	// Tomorrow: under the regular 7-day threshold, but escalation members are
	// held to the zero-day threshold instead.
	start := f.seedWeek(t, "op-alice", domain.DateOnly(fixedNow).AddDate(0, 0, 1))

	req, err := f.svc.CreateSwap(context.Background(), "op-carol", SwapCreateInput{
		WeekStart: start,
		TargetID:  "op-bob",
	})
	require.NoError(t, err)
	require.Equal(t, domain.SwapStatusPending, req.Status)
}

func TestCreateSwapTooCloseToWeekStart(t *testing.T) {
	f := newSwapFixture(t)
	// Six days out: one short of the seven-day minimum.
	start := f.seedWeek(t, "op-alice", wednesday)

	_, err := f.svc.CreateSwap(context.Background(), "op-alice", SwapCreateInput{
		WeekStart: start,
		TargetID:  "op-bob",
	})
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestCreateSwapDeactivatedTarget(t *testing.T) {
	f := newSwapFixture(t)
	start := f.seedWeek(t, "op-alice", wednesday.AddDate(0, 0, 7))

	_, err := f.svc.CreateSwap(context.Background(), "op-alice", SwapCreateInput{
		WeekStart: start,
		TargetID:  "op-gone",
	})
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func (f *swapFixture) createPending(t *testing.T, start time.Time) *domain.SwapRequest {
	t.Helper()
	req, err := f.svc.CreateSwap(context.Background(), "op-alice", SwapCreateInput{
		WeekStart: start,
		TargetID:  "op-bob",
		Reason:    "conference",
	})
	require.NoError(t, err)
	return req
}

func TestApproveReassignsWeekToTarget(t *testing.T) {
	f := newSwapFixture(t)
	start := f.seedWeek(t, "op-alice", wednesday.AddDate(0, 0, 7))
	req := f.createPending(t, start)

	approved, err := f.svc.Approve(context.Background(), req.ID, "op-bob")
	require.NoError(t, err)
	require.Equal(t, domain.SwapStatusApproved, approved.Status)
	require.NotNil(t, approved.RespondedAt)

	week, err := f.weeks.FindByStart(context.Background(), start)
	require.NoError(t, err)
	require.Equal(t, "op-bob", week.OperatorID)
	require.True(t, week.Swapped())

	// The reassigned week now resolves with swap provenance.
	duty := NewDutyService(DutyDependencies{WeekRepo: f.weeks, OverrideRepo: newMockOverrideRepo()})
	assignment, err := duty.ResolveDutyFor(context.Background(), start.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Equal(t, "op-bob", assignment.OperatorID)
	require.Equal(t, domain.DutySourceSwap, assignment.Source)
}

func TestApproveByBystanderForbidden(t *testing.T) {
	f := newSwapFixture(t)
	start := f.seedWeek(t, "op-alice", wednesday.AddDate(0, 0, 7))
	req := f.createPending(t, start)

	_, err := f.svc.Approve(context.Background(), req.ID, "op-gone")
	requireDomainCode(t, err, "FORBIDDEN")

	// The request stays pending and the week stays put.
	stored, err := f.swaps.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SwapStatusPending, stored.Status)
}

func TestApproveByEscalationMember(t *testing.T) {
	f := newSwapFixture(t)
	start := f.seedWeek(t, "op-alice", wednesday.AddDate(0, 0, 7))
	req := f.createPending(t, start)

	approved, err := f.svc.Approve(context.Background(), req.ID, "op-carol")
	require.NoError(t, err)
	require.Equal(t, domain.SwapStatusApproved, approved.Status)
}

func TestApproveResolvedRequestInvalidState(t *testing.T) {
	f := newSwapFixture(t)
	start := f.seedWeek(t, "op-alice", wednesday.AddDate(0, 0, 7))
	req := f.createPending(t, start)

	_, err := f.svc.Reject(context.Background(), req.ID, "op-bob", "busy that week")
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), req.ID, "op-bob")
	requireDomainCode(t, err, "INVALID_STATE")
}

func TestRejectLeavesRotationUntouched(t *testing.T) {
	f := newSwapFixture(t)
	start := f.seedWeek(t, "op-alice", wednesday.AddDate(0, 0, 7))
	req := f.createPending(t, start)

	rejected, err := f.svc.Reject(context.Background(), req.ID, "op-bob", "busy that week")
	require.NoError(t, err)
	require.Equal(t, domain.SwapStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	require.Equal(t, "busy that week", *rejected.RejectionReason)

	week, err := f.weeks.FindByStart(context.Background(), start)
	require.NoError(t, err)
	require.Equal(t, "op-alice", week.OperatorID)
	require.False(t, week.Swapped())
}

func TestConcurrentApprovalExactlyOneWins(t *testing.T) {
	f := newSwapFixture(t)
	start := f.seedWeek(t, "op-alice", wednesday.AddDate(0, 0, 7))
	req := f.createPending(t, start)

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Approve(context.Background(), req.ID, "op-bob")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		requireDomainCode(t, err, "INVALID_STATE")
		conflicts++
	}
	require.Equal(t, 1, wins)
	require.Equal(t, attempts-1, conflicts)

	week, err := f.weeks.FindByStart(context.Background(), start)
	require.NoError(t, err)
	require.Equal(t, "op-bob", week.OperatorID)
}

func TestSwapListingViews(t *testing.T) {
	f := newSwapFixture(t)
	start1 := f.seedWeek(t, "op-alice", wednesday.AddDate(0, 0, 7))
	start2 := f.seedWeek(t, "op-alice", wednesday.AddDate(0, 0, 14))

	first := f.createPending(t, start1)
	second := f.createPending(t, start2)

	pending, err := f.svc.ListPendingForTarget(context.Background(), "op-bob")
	require.NoError(t, err)
	require.Len(t, pending, 2)

	_, err = f.svc.Approve(context.Background(), first.ID, "op-bob")
	require.NoError(t, err)

	pending, err = f.svc.ListPendingForTarget(context.Background(), "op-bob")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, second.ID, pending[0].ID)

	mine, err := f.svc.ListMine(context.Background(), "op-alice")
	require.NoError(t, err)
	require.Len(t, mine, 2)

	// History shows the resolved request once for each party, never twice.
	history, err := f.svc.ListHistory(context.Background(), "op-alice")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, first.ID, history[0].ID)

	history, err = f.svc.ListHistory(context.Background(), "op-bob")
	require.NoError(t, err)
	require.Len(t, history, 1)
}
