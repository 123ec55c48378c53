package services

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"eventbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccountRepo is an in-memory AccountRepository for tests.
type fakeAccountRepo struct {
	byEmail map[string]*domain.Account
	nextID  int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: make(map[string]*domain.Account), nextID: 1}
}

func (f *fakeAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	if _, ok := f.byEmail[a.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	a.ID = fmt.Sprintf("acc-%d", f.nextID)
	f.nextID++
	f.byEmail[a.Email] = a
	return nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// fakeHasher records passwords as "hash(salt:password)" so comparisons are
// deterministic without bcrypt cost.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hash(" + salt + ":" + password + ")", nil
}
func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hash("+salt+":"+password+")" {
		return fmt.Errorf("mismatch")
	}
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(accountID, email string, roles []domain.AccountRole, expiry time.Duration) (string, error) {
	return "token-for-" + accountID, nil
}

// recordingMailer captures sent mail.
type recordingMailer struct {
	to []string
}

func (m *recordingMailer) Send(to, subject, html, text string) error {
	m.to = append(m.to, to)
	return nil
}

func newTestAccountService(repo domain.AccountRepository, mailer domain.Mailer) domain.AccountService {
	return NewAccountService(repo, fakeHasher{}, fakeIssuer{}, time.Hour, mailer, slog.Default())
}

func TestAccountService_SignUp(t *testing.T) {
	repo := newFakeAccountRepo()
	mailer := &recordingMailer{}
	svc := newTestAccountService(repo, mailer)

	account, err := svc.SignUp(context.Background(), "User@Example.com", "password123", nil)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", account.Email)
	assert.Equal(t, []domain.AccountRole{domain.RoleUser}, account.Roles)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, []string{"user@example.com"}, mailer.to)
}

func TestAccountService_SignUp_Invalid(t *testing.T) {
	svc := newTestAccountService(newFakeAccountRepo(), nil)

	_, err := svc.SignUp(context.Background(), "not-an-email", "password123", nil)
	require.Error(t, err)

	_, err = svc.SignUp(context.Background(), "user@example.com", "short", nil)
	require.Error(t, err)
}

func TestAccountService_SignUp_DuplicateEmail(t *testing.T) {
	svc := newTestAccountService(newFakeAccountRepo(), nil)

	_, err := svc.SignUp(context.Background(), "user@example.com", "password123", nil)
	require.NoError(t, err)
	_, err = svc.SignUp(context.Background(), "user@example.com", "password456", nil)
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAccountService_Login(t *testing.T) {
	svc := newTestAccountService(newFakeAccountRepo(), nil)
	created, err := svc.SignUp(context.Background(), "user@example.com", "password123", nil)
	require.NoError(t, err)

	token, account, err := svc.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+created.ID, token)
	assert.Equal(t, created.ID, account.ID)
}

func TestAccountService_Login_BadCredentials(t *testing.T) {
	svc := newTestAccountService(newFakeAccountRepo(), nil)
	_, err := svc.SignUp(context.Background(), "user@example.com", "password123", nil)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "user@example.com", "wrong-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// An unknown email produces the same error as a wrong password.
	_, _, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAccountService_GetByID_NotFound(t *testing.T) {
	svc := newTestAccountService(newFakeAccountRepo(), nil)
	_, err := svc.GetByID(context.Background(), "acc-missing")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountService_EnsureSeedAccounts(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestAccountService(repo, nil)

	seeds := []domain.SeedAccount{
		{Email: "admin@example.com", Password: "admin-pass-1", Roles: []domain.AccountRole{domain.RoleAdmin, domain.RoleUser}},
		{Email: "user@example.com", Password: "user-pass-11", Roles: []domain.AccountRole{domain.RoleUser}},
	}
	require.NoError(t, svc.EnsureSeedAccounts(context.Background(), seeds))

	admin, err := repo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.HasRole(domain.RoleAdmin))

	// Second run is a no-op, not a duplicate error.
	require.NoError(t, svc.EnsureSeedAccounts(context.Background(), seeds))
}
