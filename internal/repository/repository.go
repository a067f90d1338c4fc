// Package repository declares the storage interfaces consumed by the service
// layer. The sqlite subpackage provides the concrete implementation; tests
// substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/miniblog/internal/model"
)

type UserRepository interface {
	// Create inserts a new user, filling in ID and CreatedAt. A username
	// collision returns apperror.ErrDuplicateUsername, whether it is caught
	// before the insert or by the UNIQUE constraint during it.
	Create(ctx context.Context, user *model.User) error
	// GetByUsername is an exact-match lookup. Returns apperror.ErrNotFound
	// when no such user exists.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type PostRepository interface {
	// Create inserts a new post, filling in ID and CreatedAt.
	Create(ctx context.Context, post *model.Post) error
	// ListWithAuthors returns every post joined with its author's username,
	// newest first; posts sharing a timestamp keep insertion order.
	ListWithAuthors(ctx context.Context) ([]model.PostWithAuthor, error)
	// Update changes title and content only when the post exists and belongs
	// to requesterID. It reports whether a row changed; a miss is not an
	// error; not-found and not-owner are indistinguishable.
	Update(ctx context.Context, id, title, content, requesterID string) (bool, error)
	// Delete removes the post under the same ownership guard as Update.
	Delete(ctx context.Context, id, requesterID string) (bool, error)
}
