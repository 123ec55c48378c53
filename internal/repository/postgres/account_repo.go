package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventbook/internal/domain"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) domain.AccountRepository {
	return &accountRepository{DB: db}
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (email, password_hash, salt, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	roles := make([]string, len(a.Roles))
	for i, role := range a.Roles {
		roles[i] = string(role)
	}
	err := r.DB.QueryRowContext(ctx, query,
		a.Email, a.PasswordHash, a.Salt, pq.Array(roles), a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT id, email, password_hash, salt, roles, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`
	return r.scanAccount(r.DB.QueryRowContext(ctx, query, email))
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT id, email, password_hash, salt, roles, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanAccount(r.DB.QueryRowContext(ctx, query, id))
}

func (r *accountRepository) scanAccount(row *sql.Row) (*domain.Account, error) {
	a := &domain.Account{}
	var roles []string
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Salt, pq.Array(&roles), &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	a.Roles = make([]domain.AccountRole, len(roles))
	for i, role := range roles {
		a.Roles[i] = domain.AccountRole(role)
	}
	return a, nil
}
