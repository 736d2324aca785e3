package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/oncall-service/internal/domain"
)

// SwapFilter captures swap request listing parameters.
type SwapFilter struct {
	RequesterID *string
	TargetID    *string
	Statuses    []domain.SwapStatus
	Limit       int
	Offset      int
}

// SwapRequestRepository encapsulates swap request persistence.
type SwapRequestRepository interface {
	Create(ctx context.Context, req *domain.SwapRequest) error
	GetByID(ctx context.Context, id string) (*domain.SwapRequest, error)
	ListWithFilter(ctx context.Context, filter SwapFilter) ([]domain.SwapRequest, error)
	// MarkRejected flips a pending request to rejected. Returns false when the
	// request was no longer pending.
	MarkRejected(ctx context.Context, id string, respondedAt time.Time, reason *string) (bool, error)
	// ApproveAndReassign flips a pending request to approved and reassigns the
	// named week to newOperatorID in the same transaction. Returns false when
	// the request was no longer pending; a concurrent approver loses here.
	ApproveAndReassign(ctx context.Context, id string, respondedAt time.Time, weekStart time.Time, newOperatorID string) (bool, error)
}

type swapRequestRepository struct {
	pool *pgxpool.Pool
}

// NewSwapRequestRepository instantiates repository.
func NewSwapRequestRepository(pool *pgxpool.Pool) SwapRequestRepository {
	return &swapRequestRepository{pool: pool}
}

const swapColumns = `id, requester_id, target_id, week_start, week_end, reason, status, requested_at, responded_at, rejection_reason`

func (r *swapRequestRepository) Create(ctx context.Context, req *domain.SwapRequest) error {
	const query = `
        INSERT INTO swap_requests (requester_id, target_id, week_start, week_end, reason, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, requested_at`
	return r.pool.QueryRow(ctx, query,
		req.RequesterID,
		req.TargetID,
		domain.DateOnly(req.WeekStart),
		domain.DateOnly(req.WeekEnd),
		req.Reason,
		req.Status,
	).Scan(&req.ID, &req.RequestedAt)
}

func (r *swapRequestRepository) GetByID(ctx context.Context, id string) (*domain.SwapRequest, error) {
	const query = `SELECT ` + swapColumns + ` FROM swap_requests WHERE id=$1`
	var req domain.SwapRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.RequesterID,
		&req.TargetID,
		&req.WeekStart,
		&req.WeekEnd,
		&req.Reason,
		&req.Status,
		&req.RequestedAt,
		&req.RespondedAt,
		&req.RejectionReason,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *swapRequestRepository) ListWithFilter(ctx context.Context, filter SwapFilter) ([]domain.SwapRequest, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_id=$%d", len(args)))
	}
	if filter.TargetID != nil {
		args = append(args, *filter.TargetID)
		clauses = append(clauses, fmt.Sprintf("target_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM swap_requests WHERE %s ORDER BY requested_at DESC LIMIT %d OFFSET %d`,
		swapColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SwapRequest
	for rows.Next() {
		var req domain.SwapRequest
		if err := rows.Scan(
			&req.ID,
			&req.RequesterID,
			&req.TargetID,
			&req.WeekStart,
			&req.WeekEnd,
			&req.Reason,
			&req.Status,
			&req.RequestedAt,
			&req.RespondedAt,
			&req.RejectionReason,
		); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func (r *swapRequestRepository) MarkRejected(ctx context.Context, id string, respondedAt time.Time, reason *string) (bool, error) {
	const query = `
        UPDATE swap_requests SET status=$1, responded_at=$2, rejection_reason=$3
        WHERE id=$4 AND status=$5`
	cmd, err := r.pool.Exec(ctx, query, domain.SwapStatusRejected, respondedAt, reason, id, domain.SwapStatusPending)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *swapRequestRepository) ApproveAndReassign(ctx context.Context, id string, respondedAt time.Time, weekStart time.Time, newOperatorID string) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The status flip is the guard: only the caller that moves the row out of
	// PENDING gets to touch the rotation.
	const approve = `
        UPDATE swap_requests SET status=$1, responded_at=$2
        WHERE id=$3 AND status=$4`
	cmd, err := tx.Exec(ctx, approve, domain.SwapStatusApproved, respondedAt, id, domain.SwapStatusPending)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, nil
	}

	const reassign = `
        UPDATE rotation_weeks SET operator_id=$1, swap_request_id=$2, updated_at=NOW()
        WHERE week_start=$3`
	cmd, err = tx.Exec(ctx, reassign, newOperatorID, id, domain.DateOnly(weekStart))
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, pgx.ErrNoRows
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
