package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/oncall-service/internal/domain"
)

// OperatorRepository encapsulates operator persistence.
type OperatorRepository interface {
	Create(ctx context.Context, op *domain.Operator) error
	Update(ctx context.Context, op *domain.Operator) error
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
	List(ctx context.Context, onlyActive bool) ([]domain.Operator, error)
}

type operatorRepository struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository instantiates repository.
func NewOperatorRepository(pool *pgxpool.Pool) OperatorRepository {
	return &operatorRepository{pool: pool}
}

const operatorColumns = `id, display_name, domain_account, email, phone_number, color_code, role, password_hash, is_active, created_at, updated_at`

func (r *operatorRepository) Create(ctx context.Context, op *domain.Operator) error {
	const query = `
        INSERT INTO operators (display_name, domain_account, email, phone_number, color_code, role, password_hash, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		op.DisplayName,
		op.DomainAccount,
		op.Email,
		op.PhoneNumber,
		op.ColorCode,
		op.Role,
		op.PasswordHash,
		op.IsActive,
	).Scan(&op.ID, &op.CreatedAt, &op.UpdatedAt)
}

func (r *operatorRepository) Update(ctx context.Context, op *domain.Operator) error {
	const query = `
        UPDATE operators SET display_name=$1, domain_account=$2, email=$3, phone_number=$4,
            color_code=$5, role=$6, password_hash=$7, is_active=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		op.DisplayName,
		op.DomainAccount,
		op.Email,
		op.PhoneNumber,
		op.ColorCode,
		op.Role,
		op.PasswordHash,
		op.IsActive,
		op.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *operatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	return r.fetchSingle(ctx, `SELECT `+operatorColumns+` FROM operators WHERE id=$1`, id)
}

func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	return r.fetchSingle(ctx, `SELECT `+operatorColumns+` FROM operators WHERE email=$1`, email)
}

func (r *operatorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Operator, error) {
	var op domain.Operator
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&op.ID,
		&op.DisplayName,
		&op.DomainAccount,
		&op.Email,
		&op.PhoneNumber,
		&op.ColorCode,
		&op.Role,
		&op.PasswordHash,
		&op.IsActive,
		&op.CreatedAt,
		&op.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *operatorRepository) List(ctx context.Context, onlyActive bool) ([]domain.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY display_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Operator
	for rows.Next() {
		var op domain.Operator
		if err := rows.Scan(
			&op.ID,
			&op.DisplayName,
			&op.DomainAccount,
			&op.Email,
			&op.PhoneNumber,
			&op.ColorCode,
			&op.Role,
			&op.PasswordHash,
			&op.IsActive,
			&op.CreatedAt,
			&op.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, op)
	}
	return result, rows.Err()
}
