// Package main is the entry point for the eventbook API server.
//
// @title eventbook API
// @version 1.0
// @description REST API for creating, browsing, and managing events.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"eventbook/config"
	"eventbook/internal/adapters/auth"
	"eventbook/internal/adapters/email"
	deliveryhttp "eventbook/internal/delivery/http"
	"eventbook/internal/delivery/http/controllers"
	"eventbook/internal/domain"
	"eventbook/internal/repository/postgres"
	"eventbook/internal/services"
)

const serviceTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(db); err != nil {
		logger.Error("run migrations", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	accountRepo := postgres.NewAccountRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokenService := auth.NewJWTTokenService(cfg.JWTSecret)
	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)

	eventService := services.NewEventService(eventRepo, serviceTimeout)
	accountService := services.NewAccountService(accountRepo, hasher, tokenService, cfg.JWTExpiry, mailer, logger)

	if err := accountService.EnsureSeedAccounts(context.Background(), seedAccounts(cfg)); err != nil {
		logger.Error("seed accounts", "err", err)
		os.Exit(1)
	}

	eventController := controllers.NewEventController(logger, eventService)
	authController := controllers.NewAuthController(logger, accountService)

	mux := deliveryhttp.NewRouter(eventController, authController)
	handler := deliveryhttp.WrapMiddleware(mux, tokenService, accountService, logger, cfg.CORSAllowedOrigins)

	addr := ":" + cfg.Port
	logger.Info("server starting", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// seedAccounts builds the bootstrap accounts from config. Entries without an
// email are skipped by the account service.
func seedAccounts(cfg *config.Config) []domain.SeedAccount {
	return []domain.SeedAccount{
		{
			Email:    cfg.SeedAdminEmail,
			Password: cfg.SeedAdminPassword,
			Roles:    []domain.AccountRole{domain.RoleAdmin, domain.RoleUser},
		},
		{
			Email:    cfg.SeedUserEmail,
			Password: cfg.SeedUserPassword,
			Roles:    []domain.AccountRole{domain.RoleUser},
		},
	}
}
