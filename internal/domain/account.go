package domain

import (
	"context"
	"time"
)

// AccountRole is an application role attached to an account.
type AccountRole string

const (
	RoleAdmin AccountRole = "ADMIN"
	RoleUser  AccountRole = "USER"
)

// Account represents a registered account. Email is unique and acts as the
// username. PasswordHash and Salt are opaque credentials, only ever compared
// through a PasswordHasher.
// swagger:model Account
type Account struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Salt         string        `json:"-"`
	Roles        []AccountRole `json:"roles,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HasRole reports whether the account holds the given role.
func (a *Account) HasRole(role AccountRole) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues bearer tokens (e.g. JWT) for an authenticated account.
type TokenIssuer interface {
	Issue(accountID, email string, roles []AccountRole, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns the account ID it was
// issued for.
type TokenVerifier interface {
	Verify(token string) (accountID string, err error)
}

// Mailer sends transactional email.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// AccountRepository defines the interface for account storage.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
}

// AccountService defines account registration, login, and identity
// resolution for the authorization gate.
type AccountService interface {
	SignUp(ctx context.Context, email, password string, roles []AccountRole) (*Account, error)
	Login(ctx context.Context, email, password string) (token string, account *Account, err error)
	GetByID(ctx context.Context, id string) (*Account, error)
	EnsureSeedAccounts(ctx context.Context, seeds []SeedAccount) error
}

// SeedAccount is a bootstrap account created at startup if absent.
type SeedAccount struct {
	Email    string
	Password string
	Roles    []AccountRole
}
