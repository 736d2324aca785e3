package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/oncall-service/internal/domain"
)

// EscalationRepository manages the escalation membership set.
type EscalationRepository interface {
	Add(ctx context.Context, member *domain.EscalationMember) error
	Remove(ctx context.Context, operatorID string) error
	List(ctx context.Context) ([]domain.EscalationMember, error)
	IsMember(ctx context.Context, operatorID string) (bool, error)
}

type escalationRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRepository instantiates repository.
func NewEscalationRepository(pool *pgxpool.Pool) EscalationRepository {
	return &escalationRepository{pool: pool}
}

func (r *escalationRepository) Add(ctx context.Context, member *domain.EscalationMember) error {
	const query = `
        INSERT INTO escalation_members (operator_id, added_by)
        VALUES ($1,$2)
        ON CONFLICT (operator_id) DO NOTHING
        RETURNING added_at`
	err := r.pool.QueryRow(ctx, query, member.OperatorID, member.AddedBy).Scan(&member.AddedAt)
	if err == pgx.ErrNoRows {
		// already a member
		return nil
	}
	return err
}

func (r *escalationRepository) Remove(ctx context.Context, operatorID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM escalation_members WHERE operator_id=$1`, operatorID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *escalationRepository) List(ctx context.Context) ([]domain.EscalationMember, error) {
	rows, err := r.pool.Query(ctx, `SELECT operator_id, added_by, added_at FROM escalation_members ORDER BY added_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EscalationMember
	for rows.Next() {
		var m domain.EscalationMember
		if err := rows.Scan(&m.OperatorID, &m.AddedBy, &m.AddedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *escalationRepository) IsMember(ctx context.Context, operatorID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM escalation_members WHERE operator_id=$1)`, operatorID).Scan(&exists)
	return exists, err
}
