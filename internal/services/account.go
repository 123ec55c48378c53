package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eventbook/internal/domain"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type accountService struct {
	accountRepo domain.AccountRepository
	hasher      domain.PasswordHasher
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
	mailer      domain.Mailer
	logger      *slog.Logger
}

// NewAccountService creates an AccountService with the given repository and
// auth ports. mailer may be nil; signup then skips the welcome email.
func NewAccountService(accountRepo domain.AccountRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration, mailer domain.Mailer, logger *slog.Logger) domain.AccountService {
	return &accountService{
		accountRepo: accountRepo,
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
		mailer:      mailer,
		logger:      logger,
	}
}

func (s *accountService) SignUp(ctx context.Context, email, password string, roles []domain.AccountRole) (*domain.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if len(roles) == 0 {
		roles = []domain.AccountRole{domain.RoleUser}
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.Send(email, "Welcome to eventbook",
			"<p>Your account is ready. You can now create and manage events.</p>",
			"Your account is ready. You can now create and manage events."); err != nil {
			// Signup already succeeded; a failed welcome mail is not fatal.
			s.logger.Warn("welcome email failed", "email", email, "err", err)
		}
	}
	return account, nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	account, err := s.accountRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		// Do not leak whether the email exists.
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(account.PasswordHash, account.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(account.ID, account.Email, account.Roles, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, account, nil
}

// GetByID resolves an account id (typically taken from a verified token) to
// the full account. Used by the authorization gate.
func (s *accountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// EnsureSeedAccounts creates the bootstrap accounts that do not exist yet.
// Existing accounts are left untouched.
func (s *accountService) EnsureSeedAccounts(ctx context.Context, seeds []domain.SeedAccount) error {
	for _, seed := range seeds {
		email := strings.TrimSpace(strings.ToLower(seed.Email))
		if email == "" {
			continue
		}
		if _, err := s.accountRepo.GetByEmail(ctx, email); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("lookup seed account %s: %w", email, err)
		}
		if _, err := s.SignUp(ctx, email, seed.Password, seed.Roles); err != nil {
			return fmt.Errorf("seed account %s: %w", email, err)
		}
		s.logger.Info("seed account created", "email", email)
	}
	return nil
}
