package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/miniblog/internal/apperror"
	"github.com/sakif/miniblog/internal/service"
	"github.com/sakif/miniblog/internal/session"
)

// formData is the payload for the login and register templates. Error is a
// human-readable message; the templates render it above the form.
type formData struct {
	Error string
}

// AuthHandler serves the registration, login, and logout flows.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Manager
	renderer *Renderer
	logger   *slog.Logger
}

func NewAuthHandler(
	authSvc *service.AuthService,
	sessions *session.Manager,
	renderer *Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:     authSvc,
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleHome routes the bare domain: logged-in users land on the feed,
// everyone else on the login page.
//
// HTTP: GET /
func (h *AuthHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if h.sessions.Current(r).IsAuthenticated() {
		http.Redirect(w, r, "/blog", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLoginPage renders the login form.
//
// HTTP: GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login", formData{})
}

// HandleRegisterPage renders the registration form.
//
// HTTP: GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "register", formData{})
}

// HandleRegister creates a new account from the register form.
//
// HTTP: POST /register{username,password}
//
// Validation failures and duplicate usernames re-render the form with the
// error message; success redirects to the login page. Storage failures get
// the generic error page; no driver detail reaches the client.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	_, err := h.auth.Register(r.Context(), username, password)
	if err != nil {
		var appErr *apperror.AppError
		switch {
		case errors.Is(err, apperror.ErrValidation),
			errors.Is(err, apperror.ErrDuplicateUsername):
			errors.As(err, &appErr)
			h.renderer.Render(w, http.StatusOK, "register", formData{Error: appErr.Message})
		default:
			h.renderer.RenderFailure(w, err)
		}
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLogin authenticates the user and populates the session.
//
// HTTP: POST /login{username,password}
//
// The failure message is identical for an unknown username and a wrong
// password; the service guarantees that, this handler just passes it
// through.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		var appErr *apperror.AppError
		switch {
		case errors.Is(err, apperror.ErrValidation),
			errors.Is(err, apperror.ErrInvalidCredentials):
			errors.As(err, &appErr)
			h.renderer.Render(w, http.StatusOK, "login", formData{Error: appErr.Message})
		default:
			h.renderer.RenderFailure(w, err)
		}
		return
	}

	if err := h.sessions.Authenticate(w, r, user.ID, user.Username); err != nil {
		h.renderer.RenderFailure(w, err)
		return
	}

	http.Redirect(w, r, "/blog", http.StatusSeeOther)
}

// HandleLogout destroys the session and redirects to the login page.
//
// HTTP: GET /logout
//
// A destroy failure is logged but still redirects; the client must land
// away from protected content either way.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(w, r); err != nil {
		h.logger.Error("session destroy failed", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
