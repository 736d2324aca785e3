package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/repository"
)

// In-memory repository doubles for service tests. They mirror the postgres
// implementations' contracts, including pgx.ErrNoRows on misses and the
// compare-and-set semantics of the swap transitions.

type mockWeekRepo struct {
	mu    sync.Mutex
	weeks map[string]domain.RotationWeek
}

func newMockWeekRepo() *mockWeekRepo {
	return &mockWeekRepo{weeks: make(map[string]domain.RotationWeek)}
}

func (m *mockWeekRepo) CreateBatch(_ context.Context, weeks []domain.RotationWeek) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range weeks {
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
		m.weeks[w.ID] = w
	}
	return nil
}

func (m *mockWeekRepo) GetByID(_ context.Context, id string) (*domain.RotationWeek, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.weeks[id]; ok {
		return &w, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockWeekRepo) FindCovering(_ context.Context, date time.Time) (*domain.RotationWeek, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.weeks {
		if w.Contains(date) {
			return &w, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockWeekRepo) FindByStart(_ context.Context, weekStart time.Time) (*domain.RotationWeek, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := domain.DateOnly(weekStart)
	for _, w := range m.weeks {
		if domain.DateOnly(w.WeekStart).Equal(day) {
			return &w, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockWeekRepo) ListRange(_ context.Context, start, end time.Time) ([]domain.RotationWeek, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RotationWeek
	for _, w := range m.weeks {
		if !domain.DateOnly(w.WeekEnd).Before(domain.DateOnly(start)) && !domain.DateOnly(w.WeekStart).After(domain.DateOnly(end)) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out, nil
}

func (m *mockWeekRepo) ListEndingAfter(_ context.Context, from, until time.Time) ([]domain.RotationWeek, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RotationWeek
	for _, w := range m.weeks {
		end := domain.DateOnly(w.WeekEnd)
		if end.After(domain.DateOnly(from)) && !end.After(domain.DateOnly(until)) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out, nil
}

func (m *mockWeekRepo) LastWeekEnd(_ context.Context) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last *time.Time
	for _, w := range m.weeks {
		end := w.WeekEnd
		if last == nil || end.After(*last) {
			last = &end
		}
	}
	return last, nil
}

// reassign swaps the operator of the week starting at weekStart, holding the
// repo lock. Used by mockSwapRepo.ApproveAndReassign to mimic the single
// postgres transaction.
func (m *mockWeekRepo) reassign(weekStart time.Time, operatorID, swapRequestID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := domain.DateOnly(weekStart)
	for id, w := range m.weeks {
		if domain.DateOnly(w.WeekStart).Equal(day) {
			w.OperatorID = operatorID
			w.SwapRequestID = &swapRequestID
			m.weeks[id] = w
			return true
		}
	}
	return false
}

type mockOperatorRepo struct {
	mu  sync.Mutex
	ops map[string]domain.Operator
}

func newMockOperatorRepo(ops ...domain.Operator) *mockOperatorRepo {
	m := &mockOperatorRepo{ops: make(map[string]domain.Operator)}
	for _, op := range ops {
		m.ops[op.ID] = op
	}
	return m
}

func (m *mockOperatorRepo) Create(_ context.Context, op *domain.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	m.ops[op.ID] = *op
	return nil
}

func (m *mockOperatorRepo) Update(_ context.Context, op *domain.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ops[op.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.ops[op.ID] = *op
	return nil
}

func (m *mockOperatorRepo) GetByID(_ context.Context, id string) (*domain.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if op, ok := m.ops[id]; ok {
		return &op, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockOperatorRepo) GetByEmail(_ context.Context, email string) (*domain.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range m.ops {
		if op.Email == email {
			return &op, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockOperatorRepo) List(_ context.Context, onlyActive bool) ([]domain.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Operator
	for _, op := range m.ops {
		if onlyActive && !op.IsActive {
			continue
		}
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type mockEscalationRepo struct {
	mu      sync.Mutex
	members map[string]domain.EscalationMember
}

func newMockEscalationRepo(operatorIDs ...string) *mockEscalationRepo {
	m := &mockEscalationRepo{members: make(map[string]domain.EscalationMember)}
	for _, id := range operatorIDs {
		m.members[id] = domain.EscalationMember{OperatorID: id}
	}
	return m
}

func (m *mockEscalationRepo) Add(_ context.Context, member *domain.EscalationMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.OperatorID] = *member
	return nil
}

func (m *mockEscalationRepo) Remove(_ context.Context, operatorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[operatorID]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.members, operatorID)
	return nil
}

func (m *mockEscalationRepo) List(_ context.Context) ([]domain.EscalationMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.EscalationMember
	for _, member := range m.members {
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OperatorID < out[j].OperatorID })
	return out, nil
}

func (m *mockEscalationRepo) IsMember(_ context.Context, operatorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.members[operatorID]
	return ok, nil
}

type mockOverrideRepo struct {
	mu        sync.Mutex
	overrides map[time.Time]domain.DayOverride
}

func newMockOverrideRepo() *mockOverrideRepo {
	return &mockOverrideRepo{overrides: make(map[time.Time]domain.DayOverride)}
}

func (m *mockOverrideRepo) Upsert(_ context.Context, override *domain.DayOverride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if override.ID == "" {
		override.ID = uuid.NewString()
	}
	override.Date = domain.DateOnly(override.Date)
	m.overrides[override.Date] = *override
	return nil
}

func (m *mockOverrideRepo) GetByDate(_ context.Context, date time.Time) (*domain.DayOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.overrides[domain.DateOnly(date)]; ok {
		return &o, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockOverrideRepo) ListRange(_ context.Context, start, end time.Time) ([]domain.DayOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DayOverride
	for _, o := range m.overrides {
		if !o.Date.Before(domain.DateOnly(start)) && !o.Date.After(domain.DateOnly(end)) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type mockSwapRepo struct {
	mu       sync.Mutex
	requests map[string]domain.SwapRequest
	weekRepo *mockWeekRepo
}

func newMockSwapRepo(weekRepo *mockWeekRepo) *mockSwapRepo {
	return &mockSwapRepo{requests: make(map[string]domain.SwapRequest), weekRepo: weekRepo}
}

func (m *mockSwapRepo) Create(_ context.Context, req *domain.SwapRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}
	m.requests[req.ID] = *req
	return nil
}

func (m *mockSwapRepo) GetByID(_ context.Context, id string) (*domain.SwapRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req, ok := m.requests[id]; ok {
		return &req, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockSwapRepo) ListWithFilter(_ context.Context, filter repository.SwapFilter) ([]domain.SwapRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SwapRequest
	for _, req := range m.requests {
		if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.TargetID != nil && req.TargetID != *filter.TargetID {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, status := range filter.Statuses {
				if req.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out, nil
}

func (m *mockSwapRepo) MarkRejected(_ context.Context, id string, respondedAt time.Time, reason *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok || req.Status != domain.SwapStatusPending {
		return false, nil
	}
	req.Status = domain.SwapStatusRejected
	req.RespondedAt = &respondedAt
	req.RejectionReason = reason
	m.requests[id] = req
	return true, nil
}

func (m *mockSwapRepo) ApproveAndReassign(_ context.Context, id string, respondedAt time.Time, weekStart time.Time, newOperatorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok || req.Status != domain.SwapStatusPending {
		return false, nil
	}
	if m.weekRepo != nil && !m.weekRepo.reassign(weekStart, newOperatorID, id) {
		return false, pgx.ErrNoRows
	}
	req.Status = domain.SwapStatusApproved
	req.RespondedAt = &respondedAt
	m.requests[id] = req
	return true, nil
}
