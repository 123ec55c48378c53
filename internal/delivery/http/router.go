package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventbook/internal/delivery/http/controllers"
	"eventbook/internal/delivery/http/middleware"
	"eventbook/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Event reads and creation are open to anonymous callers; identity, when a
// valid bearer token is present, is resolved once by the outer middleware.
func NewRouter(eventController *controllers.EventController, authController *controllers.AuthController) *http.ServeMux {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("GET /api/events", eventController.ListEvents)
	mux.HandleFunc("POST /api/events", eventController.CreateEvent)
	mux.HandleFunc("GET /api/events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("PUT /api/events/{eventID}", eventController.UpdateEvent)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("GET /auth/me", middleware.RequireAccount(authController.Me))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// WrapMiddleware layers the global middleware around the router: CORS
// outermost, then request logging, then bearer-token identity resolution.
func WrapMiddleware(mux *http.ServeMux, verifier domain.TokenVerifier, resolver middleware.AccountResolver, logger *slog.Logger, allowedOrigins []string) http.Handler {
	var handler http.Handler = mux
	handler = middleware.ResolveAccount(verifier, resolver, handler)
	handler = middleware.Logging(logger, handler)
	handler = middleware.CORS(allowedOrigins, handler)
	return handler
}
