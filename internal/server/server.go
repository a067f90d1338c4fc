// Package server wires the application together: router, middleware,
// handlers, and their dependencies, plus startup and graceful shutdown.
//
// The dependency chain is assembled in one place (New/setupRoutes):
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer receives only what it needs; handlers never touch the database
// and services never touch HTTP.
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
	"github.com/gorilla/sessions"

	"github.com/sakif/miniblog/internal/auth"
	"github.com/sakif/miniblog/internal/handler"
	"github.com/sakif/miniblog/internal/middleware"
	sqliteRepo "github.com/sakif/miniblog/internal/repository/sqlite"
	"github.com/sakif/miniblog/internal/service"
	"github.com/sakif/miniblog/internal/session"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
	DBPath      string
	// SessionSecret signs session cookies. Required.
	SessionSecret string
	// SessionDir is where the filesystem session store keeps its records.
	// Empty means the OS temp directory.
	SessionDir string
	// BcryptCost overrides the credential store's work factor. Zero means
	// the production default; tests lower it.
	BcryptCost int
}

// Server owns the router and the database pool; the pool is closed during
// graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency chain wired.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("server: session secret must not be empty")
	}

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

// ServeHTTP makes Server usable directly with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() error {
	// Global middleware, in order: request ID, real client IP, panic
	// recovery, request logging, hardening headers.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.SecureHeaders)

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	renderer, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	// The session record lives server-side; the cookie carries only the
	// opaque token. Logout therefore revokes the session for real, even
	// against a replayed cookie.
	store := sessions.NewFilesystemStore(s.config.SessionDir, []byte(s.config.SessionSecret))
	sessionMgr := session.NewManager(store, s.logger)

	passwords := auth.NewPasswordService()
	if s.config.BcryptCost > 0 {
		passwords = auth.NewPasswordServiceWithCost(s.config.BcryptCost)
	}

	authSvc := service.NewAuthService(s.db.Users(), passwords, s.logger)
	postSvc := service.NewPostService(s.db.Posts(), s.logger)

	authHandler := handler.NewAuthHandler(authSvc, sessionMgr, renderer, s.logger)
	blogHandler := handler.NewBlogHandler(postSvc, renderer, s.logger)

	s.router.Get("/", authHandler.HandleHome)
	s.router.Get("/login", authHandler.HandleLoginPage)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/register", authHandler.HandleRegisterPage)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Get("/logout", authHandler.HandleLogout)

	// Everything under /blog requires an authenticated session; anonymous
	// requests are redirected to /login before any handler runs.
	s.router.Route("/blog", func(r chi.Router) {
		r.Use(auth.RequireAuth(sessionMgr))
		r.Get("/", blogHandler.HandleFeed)
		r.Post("/create", blogHandler.HandleCreate)
		r.Post("/edit/{id}", blogHandler.HandleEdit)
		r.Post("/delete/{id}", blogHandler.HandleDelete)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, let in-flight requests finish
// (30s limit), close the database pool.
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
