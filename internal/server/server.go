// Package server wires the HTTP server, router, and the full dependency
// graph: database → repositories → services → handlers → routes.
//
// This is the composition root — every constructor is called here (or in
// main), so the rest of the codebase never reaches for globals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/avatar"
	"github.com/sakif/account-service/internal/config"
	"github.com/sakif/account-service/internal/handler"
	"github.com/sakif/account-service/internal/middleware"
	sqliteRepo "github.com/sakif/account-service/internal/repository/sqlite"
	"github.com/sakif/account-service/internal/service"
)

// Server owns the router, the database connection, and the configuration.
// The database is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server and assembles the dependency chain.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds the services, and binds routes.
//
// ROUTE STRUCTURE:
//
//	POST   /signup              → local registration
//	POST   /signin              → password login
//	POST   /google-auth         → federated auth (google)
//	POST   /facebook-auth       → federated auth (facebook)
//	POST   /get-profile         → public profile lookup
//	POST   /change-password     → auth required
//	POST   /update-profile-img  → auth required
//	POST   /update-profile      → auth required
//	DELETE /delete-user         → auth required
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.SecretAccessKey)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	passwords := auth.NewPasswordService(s.config.BcryptCost)
	avatars := avatar.NewResolver(
		s.config.AvatarEndpoint,
		s.config.DefaultProfileImg,
		s.config.AvatarTimeout,
		s.logger,
	)

	verifiers := map[string]auth.IdentityVerifier{
		service.ProviderGoogle:   &auth.GoogleVerifier{},
		service.ProviderFacebook: &auth.FacebookVerifier{},
	}

	authService := service.NewAuthService(
		s.db, passwords, tokens, avatars, verifiers, s.config.AdminSet(), s.logger,
	)
	profileService := service.NewProfileService(
		s.db, passwords, s.logger, s.config.BioLimit, s.config.MinUsernameLen,
	)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)

	// Public routes.
	s.router.Post("/signup", authHandler.HandleSignup)
	s.router.Post("/signin", authHandler.HandleSignin)
	s.router.Post("/google-auth", authHandler.HandleGoogleAuth)
	s.router.Post("/facebook-auth", authHandler.HandleFacebookAuth)
	s.router.Post("/get-profile", profileHandler.HandleGetProfile)

	// Routes gated on a valid session token.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Post("/change-password", profileHandler.HandleChangePassword)
		r.Post("/update-profile-img", profileHandler.HandleUpdateProfileImage)
		r.Post("/update-profile", profileHandler.HandleUpdateProfile)
		r.Delete("/delete-user", profileHandler.HandleDeleteUser)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s
// bound), close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
