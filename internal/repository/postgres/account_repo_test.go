package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventbook/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var accountRowColumns = []string{"id", "email", "password_hash", "salt", "roles", "created_at", "updated_at"}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO accounts \(email, password_hash, salt, roles, created_at, updated_at\)`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("acc-uuid-1"))

		account := &domain.Account{
			Email:        "user@example.com",
			PasswordHash: "hash",
			Salt:         "salt",
			Roles:        []domain.AccountRole{domain.RoleUser},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		repo := NewAccountRepository(db)
		require.NoError(t, repo.Create(ctx, account))
		require.Equal(t, "acc-uuid-1", account.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO accounts`).
			WillReturnError(&pq.Error{Code: uniqueViolation})

		repo := NewAccountRepository(db)
		err = repo.Create(ctx, &domain.Account{Email: "user@example.com"})
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found with roles", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(accountRowColumns).
			AddRow("acc-uuid-1", "admin@example.com", "hash", "salt", "{ADMIN,USER}", now, now)
		mock.ExpectQuery(`SELECT (.+) FROM accounts\s+WHERE email = \$1`).
			WithArgs("admin@example.com").
			WillReturnRows(rows)

		repo := NewAccountRepository(db)
		account, err := repo.GetByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		require.Equal(t, "acc-uuid-1", account.ID)
		require.True(t, account.HasRole(domain.RoleAdmin))
		require.True(t, account.HasRole(domain.RoleUser))
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM accounts\s+WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewAccountRepository(db)
		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestAccountRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(accountRowColumns).
		AddRow("acc-uuid-1", "user@example.com", "hash", "salt", "{USER}", now, now)
	mock.ExpectQuery(`SELECT (.+) FROM accounts\s+WHERE id = \$1`).
		WithArgs("acc-uuid-1").
		WillReturnRows(rows)

	repo := NewAccountRepository(db)
	account, err := repo.GetByID(ctx, "acc-uuid-1")
	require.NoError(t, err)
	require.Equal(t, "user@example.com", account.Email)
	require.Equal(t, []domain.AccountRole{domain.RoleUser}, account.Roles)
}
