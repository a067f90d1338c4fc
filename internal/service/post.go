package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/miniblog/internal/apperror"
	"github.com/sakif/miniblog/internal/model"
	"github.com/sakif/miniblog/internal/repository"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 50000
)

// PostService implements post creation, the shared feed, and the
// ownership-guarded mutations.
type PostService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

func NewPostService(posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		logger: logger,
	}
}

// Create validates and saves a new post. authorID comes from the
// authenticated session; callers must never take it from the request body.
func (s *PostService) Create(ctx context.Context, title, content, authorID string) (*model.Post, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "Title is required.")
	}
	if content == "" {
		return nil, apperror.ValidationFailed("content", "Content is required.")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("Title must be %d characters or fewer.", MaxTitleLength))
	}
	if len(content) > MaxContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("Content must be %d characters or fewer.", MaxContentLength))
	}
	if authorID == "" {
		return nil, apperror.ValidationFailed("author", "Author is required.")
	}

	post := &model.Post{
		Title:   title,
		Content: content,
		UserID:  authorID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("creating post failed", slog.String("error", err.Error()))
		return nil, apperror.StorageUnavailable(err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("userID", authorID),
	)

	return post, nil
}

// Feed returns every post with its author, newest first, for any
// authenticated user regardless of ownership.
func (s *PostService) Feed(ctx context.Context) ([]model.PostWithAuthor, error) {
	posts, err := s.posts.ListWithAuthors(ctx)
	if err != nil {
		s.logger.Error("listing feed failed", slog.String("error", err.Error()))
		return nil, apperror.StorageUnavailable(err)
	}
	return posts, nil
}

// Update edits a post's title and content when requesterID owns it. A miss
// (the post doesn't exist or belongs to someone else) is a silent no-op,
// matching the ownership guard in the repository's WHERE clause.
func (s *PostService) Update(ctx context.Context, id, title, content, requesterID string) error {
	updated, err := s.posts.Update(ctx, id, title, content, requesterID)
	if err != nil {
		s.logger.Error("updating post failed",
			slog.String("postID", id),
			slog.String("error", err.Error()),
		)
		return apperror.StorageUnavailable(err)
	}

	if !updated {
		s.logger.Debug("post update matched no rows",
			slog.String("postID", id),
			slog.String("requesterID", requesterID),
		)
		return nil
	}

	s.logger.Info("post updated",
		slog.String("postID", id),
		slog.String("userID", requesterID),
	)
	return nil
}

// Delete removes a post under the same ownership-guarded no-op contract as
// Update.
func (s *PostService) Delete(ctx context.Context, id, requesterID string) error {
	deleted, err := s.posts.Delete(ctx, id, requesterID)
	if err != nil {
		s.logger.Error("deleting post failed",
			slog.String("postID", id),
			slog.String("error", err.Error()),
		)
		return apperror.StorageUnavailable(err)
	}

	if !deleted {
		s.logger.Debug("post delete matched no rows",
			slog.String("postID", id),
			slog.String("requesterID", requesterID),
		)
		return nil
	}

	s.logger.Info("post deleted",
		slog.String("postID", id),
		slog.String("userID", requesterID),
	)
	return nil
}
