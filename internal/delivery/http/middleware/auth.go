package middleware

import (
	"context"
	"net/http"
	"strings"

	h "eventbook/internal/delivery/http/helpers"
	"eventbook/internal/domain"
)

type contextKey string

const accountKey contextKey = "account"

// SetAccount returns a context with the resolved account set.
func SetAccount(ctx context.Context, account *domain.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// AccountFromContext returns the authenticated account from the context, or
// nil for anonymous requests.
func AccountFromContext(ctx context.Context) *domain.Account {
	account, _ := ctx.Value(accountKey).(*domain.Account)
	return account
}

// AccountResolver resolves a verified token subject to a full account.
type AccountResolver interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// ResolveAccount is the authorization gate: it resolves an optional Bearer
// token to an account and stores it in the request context. A missing,
// invalid, or expired token resolves to anonymous (no account in context),
// never to an error response; handlers decide per operation whether
// anonymous is acceptable.
func ResolveAccount(verifier domain.TokenVerifier, resolver AccountResolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		accountID, err := verifier.Verify(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		account, err := resolver.GetByID(r.Context(), accountID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(SetAccount(r.Context(), account)))
	})
}

// RequireAccount wraps a handler that needs an authenticated caller. The
// gate must have run first; anonymous requests get 401.
func RequireAccount(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if AccountFromContext(r.Context()) == nil {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
