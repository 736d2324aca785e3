package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/oncall-service/internal/domain"
)

// RotationWeekRepository encapsulates base rotation persistence.
type RotationWeekRepository interface {
	CreateBatch(ctx context.Context, weeks []domain.RotationWeek) error
	GetByID(ctx context.Context, id string) (*domain.RotationWeek, error)
	// FindCovering returns the week whose half-open interval contains date.
	FindCovering(ctx context.Context, date time.Time) (*domain.RotationWeek, error)
	FindByStart(ctx context.Context, weekStart time.Time) (*domain.RotationWeek, error)
	ListRange(ctx context.Context, start, end time.Time) ([]domain.RotationWeek, error)
	// ListEndingAfter returns weeks whose end falls in (from, until].
	ListEndingAfter(ctx context.Context, from, until time.Time) ([]domain.RotationWeek, error)
	LastWeekEnd(ctx context.Context) (*time.Time, error)
}

type rotationWeekRepository struct {
	pool *pgxpool.Pool
}

// NewRotationWeekRepository instantiates repository.
func NewRotationWeekRepository(pool *pgxpool.Pool) RotationWeekRepository {
	return &rotationWeekRepository{pool: pool}
}

const rotationWeekColumns = `id, operator_id, week_start, week_end, week_number, year, swap_request_id, created_at, updated_at`

func (r *rotationWeekRepository) CreateBatch(ctx context.Context, weeks []domain.RotationWeek) error {
	if len(weeks) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	const query = `
        INSERT INTO rotation_weeks (id, operator_id, week_start, week_end, week_number, year)
        VALUES ($1,$2,$3,$4,$5,$6)`
	for _, w := range weeks {
		batch.Queue(query, w.ID, w.OperatorID, w.WeekStart, w.WeekEnd, w.WeekNumber, w.Year)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range weeks {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *rotationWeekRepository) GetByID(ctx context.Context, id string) (*domain.RotationWeek, error) {
	return r.fetchSingle(ctx, `SELECT `+rotationWeekColumns+` FROM rotation_weeks WHERE id=$1`, id)
}

func (r *rotationWeekRepository) FindCovering(ctx context.Context, date time.Time) (*domain.RotationWeek, error) {
	const query = `SELECT ` + rotationWeekColumns + `
        FROM rotation_weeks WHERE week_start <= $1 AND $1 < week_end`
	return r.fetchSingle(ctx, query, domain.DateOnly(date))
}

func (r *rotationWeekRepository) FindByStart(ctx context.Context, weekStart time.Time) (*domain.RotationWeek, error) {
	const query = `SELECT ` + rotationWeekColumns + ` FROM rotation_weeks WHERE week_start=$1`
	return r.fetchSingle(ctx, query, domain.DateOnly(weekStart))
}

func (r *rotationWeekRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.RotationWeek, error) {
	var w domain.RotationWeek
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&w.ID,
		&w.OperatorID,
		&w.WeekStart,
		&w.WeekEnd,
		&w.WeekNumber,
		&w.Year,
		&w.SwapRequestID,
		&w.CreatedAt,
		&w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *rotationWeekRepository) ListRange(ctx context.Context, start, end time.Time) ([]domain.RotationWeek, error) {
	const query = `SELECT ` + rotationWeekColumns + `
        FROM rotation_weeks WHERE week_end > $1 AND week_start <= $2 ORDER BY week_start`
	return r.list(ctx, query, domain.DateOnly(start), domain.DateOnly(end))
}

func (r *rotationWeekRepository) ListEndingAfter(ctx context.Context, from, until time.Time) ([]domain.RotationWeek, error) {
	const query = `SELECT ` + rotationWeekColumns + `
        FROM rotation_weeks WHERE week_end > $1 AND week_end <= $2 ORDER BY week_start`
	return r.list(ctx, query, domain.DateOnly(from), domain.DateOnly(until))
}

func (r *rotationWeekRepository) list(ctx context.Context, query string, args ...any) ([]domain.RotationWeek, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RotationWeek
	for rows.Next() {
		var w domain.RotationWeek
		if err := rows.Scan(
			&w.ID,
			&w.OperatorID,
			&w.WeekStart,
			&w.WeekEnd,
			&w.WeekNumber,
			&w.Year,
			&w.SwapRequestID,
			&w.CreatedAt,
			&w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

func (r *rotationWeekRepository) LastWeekEnd(ctx context.Context) (*time.Time, error) {
	var end *time.Time
	if err := r.pool.QueryRow(ctx, `SELECT MAX(week_end) FROM rotation_weeks`).Scan(&end); err != nil {
		return nil, err
	}
	return end, nil
}
