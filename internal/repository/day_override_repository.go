package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/oncall-service/internal/domain"
)

// DayOverrideRepository encapsulates day override persistence.
type DayOverrideRepository interface {
	// Upsert stores the override for its date; a re-override of the same
	// date replaces the previous one (last write wins).
	Upsert(ctx context.Context, override *domain.DayOverride) error
	GetByDate(ctx context.Context, date time.Time) (*domain.DayOverride, error)
	ListRange(ctx context.Context, start, end time.Time) ([]domain.DayOverride, error)
}

type dayOverrideRepository struct {
	pool *pgxpool.Pool
}

// NewDayOverrideRepository instantiates repository.
func NewDayOverrideRepository(pool *pgxpool.Pool) DayOverrideRepository {
	return &dayOverrideRepository{pool: pool}
}

const overrideColumns = `id, override_date, original_operator_id, covering_operator_id, created_by, created_at`

func (r *dayOverrideRepository) Upsert(ctx context.Context, override *domain.DayOverride) error {
	const query = `
        INSERT INTO day_overrides (override_date, original_operator_id, covering_operator_id, created_by)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (override_date) DO UPDATE SET
            original_operator_id=EXCLUDED.original_operator_id,
            covering_operator_id=EXCLUDED.covering_operator_id,
            created_by=EXCLUDED.created_by,
            created_at=NOW()
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		domain.DateOnly(override.Date),
		override.OriginalOperatorID,
		override.CoveringOperatorID,
		override.CreatedBy,
	).Scan(&override.ID, &override.CreatedAt)
}

func (r *dayOverrideRepository) GetByDate(ctx context.Context, date time.Time) (*domain.DayOverride, error) {
	const query = `SELECT ` + overrideColumns + ` FROM day_overrides WHERE override_date=$1`
	var o domain.DayOverride
	if err := r.pool.QueryRow(ctx, query, domain.DateOnly(date)).Scan(
		&o.ID,
		&o.Date,
		&o.OriginalOperatorID,
		&o.CoveringOperatorID,
		&o.CreatedBy,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *dayOverrideRepository) ListRange(ctx context.Context, start, end time.Time) ([]domain.DayOverride, error) {
	const query = `SELECT ` + overrideColumns + `
        FROM day_overrides WHERE override_date >= $1 AND override_date <= $2 ORDER BY override_date`
	rows, err := r.pool.Query(ctx, query, domain.DateOnly(start), domain.DateOnly(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DayOverride
	for rows.Next() {
		var o domain.DayOverride
		if err := rows.Scan(
			&o.ID,
			&o.Date,
			&o.OriginalOperatorID,
			&o.CoveringOperatorID,
			&o.CreatedBy,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}
