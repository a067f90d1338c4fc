package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/miniblog/internal/apperror"
	"github.com/sakif/miniblog/internal/auth"
	"github.com/sakif/miniblog/internal/model"
	"github.com/sakif/miniblog/internal/service"
)

// blogData is the payload for the blog template. CurrentUserID lets the
// template show edit/delete controls only on the viewer's own posts.
type blogData struct {
	Posts         []model.PostWithAuthor
	CurrentUserID string
	Username      string
}

// BlogHandler serves the shared feed and the post mutations. Every route
// here sits behind auth.RequireAuth: the acting identity always comes from
// the request context, never from the form body.
type BlogHandler struct {
	posts    *service.PostService
	renderer *Renderer
	logger   *slog.Logger
}

func NewBlogHandler(posts *service.PostService, renderer *Renderer, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{
		posts:    posts,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleFeed renders the shared feed, newest post first.
//
// HTTP: GET /blog (protected)
func (h *BlogHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// RequireAuth guarantees an identity on this route.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	posts, err := h.posts.Feed(r.Context())
	if err != nil {
		h.renderer.RenderFailure(w, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "blog", blogData{
		Posts:         posts,
		CurrentUserID: identity.UserID,
		Username:      identity.Username,
	})
}

// HandleCreate creates a post authored by the session's user.
//
// HTTP: POST /blog/create{title,content} (protected)
//
// Empty or otherwise invalid fields redirect straight back to the feed
// without creating anything.
func (h *BlogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")

	if _, err := h.posts.Create(r.Context(), title, content, identity.UserID); err != nil {
		if !errors.Is(err, apperror.ErrValidation) {
			h.renderer.RenderFailure(w, err)
			return
		}
		// fall through to the redirect; an invalid form just lands back on
		// the feed
	}

	http.Redirect(w, r, "/blog", http.StatusSeeOther)
}

// HandleEdit updates a post's title and content when the session's user
// owns it; otherwise nothing changes and the client is redirected the same
// way.
//
// HTTP: POST /blog/edit/{id}{title,content} (protected)
func (h *BlogHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	postID := chi.URLParam(r, "id")
	title := r.FormValue("title")
	content := r.FormValue("content")

	if err := h.posts.Update(r.Context(), postID, title, content, identity.UserID); err != nil {
		h.renderer.RenderFailure(w, err)
		return
	}

	http.Redirect(w, r, "/blog", http.StatusSeeOther)
}

// HandleDelete removes a post under the same ownership-guarded no-op
// contract as HandleEdit.
//
// HTTP: POST /blog/delete/{id} (protected)
func (h *BlogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	postID := chi.URLParam(r, "id")

	if err := h.posts.Delete(r.Context(), postID, identity.UserID); err != nil {
		h.renderer.RenderFailure(w, err)
		return
	}

	http.Redirect(w, r, "/blog", http.StatusSeeOther)
}
