package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sakif/miniblog/internal/apperror"
	"github.com/sakif/miniblog/internal/model"
)

// fakePostRepo is an in-memory repository.PostRepository preserving
// insertion order, so feed expectations stay deterministic.
type fakePostRepo struct {
	posts   []*model.Post
	byOwner map[string]string // post ID → owner ID
	nextID  int
	// set to a non-nil error to simulate a storage failure
	failWith error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{byOwner: make(map[string]string)}
}

func (f *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.nextID++
	post.ID = fmt.Sprintf("post-%d", f.nextID)
	post.CreatedAt = time.Now()
	stored := *post
	f.posts = append(f.posts, &stored)
	f.byOwner[post.ID] = post.UserID
	return nil
}

func (f *fakePostRepo) ListWithAuthors(_ context.Context) ([]model.PostWithAuthor, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	// newest first
	result := make([]model.PostWithAuthor, 0, len(f.posts))
	for i := len(f.posts) - 1; i >= 0; i-- {
		result = append(result, model.PostWithAuthor{
			Post:           *f.posts[i],
			AuthorUsername: "author-of-" + f.posts[i].UserID,
		})
	}
	return result, nil
}

func (f *fakePostRepo) Update(_ context.Context, id, title, content, requesterID string) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	if f.byOwner[id] != requesterID {
		return false, nil
	}
	for _, p := range f.posts {
		if p.ID == id {
			p.Title, p.Content = title, content
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostRepo) Delete(_ context.Context, id, requesterID string) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	if f.byOwner[id] != requesterID {
		return false, nil
	}
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			delete(f.byOwner, id)
			return true, nil
		}
	}
	return false, nil
}

func newTestPostService(repo *fakePostRepo) *PostService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewPostService(repo, logger)
}

func TestPostCreate(t *testing.T) {
	repo := newFakePostRepo()
	svc := newTestPostService(repo)

	post, err := svc.Create(context.Background(), "  hello  ", "first content", "user-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if post.ID == "" {
		t.Error("Create() did not populate the post ID")
	}
	if post.Title != "hello" {
		t.Errorf("Title = %q, want trimmed %q", post.Title, "hello")
	}
	if post.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", post.UserID, "user-1")
	}
}

func TestPostCreate_Validation(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		content  string
		authorID string
	}{
		{"empty title", "", "content", "user-1"},
		{"blank title", "   ", "content", "user-1"},
		{"empty content", "title", "", "user-1"},
		{"missing author", "title", "content", ""},
		{"over-long title", strings.Repeat("t", MaxTitleLength+1), "content", "user-1"},
		{"over-long content", "title", strings.Repeat("c", MaxContentLength+1), "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakePostRepo()
			svc := newTestPostService(repo)

			_, err := svc.Create(context.Background(), tt.title, tt.content, tt.authorID)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
			if len(repo.posts) != 0 {
				t.Error("invalid Create() still wrote a post")
			}
		})
	}
}

func TestPostCreate_StorageFailure(t *testing.T) {
	repo := newFakePostRepo()
	repo.failWith = errors.New("disk I/O error")
	svc := newTestPostService(repo)

	_, err := svc.Create(context.Background(), "title", "content", "user-1")
	if !errors.Is(err, apperror.ErrStorageUnavailable) {
		t.Errorf("Create() error = %v, want ErrStorageUnavailable", err)
	}
}

func TestFeed_NewestFirst(t *testing.T) {
	repo := newFakePostRepo()
	svc := newTestPostService(repo)

	for _, title := range []string{"A", "B", "C"} {
		if _, err := svc.Create(context.Background(), title, "content", "user-1"); err != nil {
			t.Fatalf("Create(%q) error = %v", title, err)
		}
	}

	posts, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("len(posts) = %d, want 3", len(posts))
	}
	for i, want := range []string{"C", "B", "A"} {
		if posts[i].Title != want {
			t.Errorf("posts[%d].Title = %q, want %q", i, posts[i].Title, want)
		}
	}
}

func TestPostUpdate_NonOwnerIsSilentNoop(t *testing.T) {
	repo := newFakePostRepo()
	svc := newTestPostService(repo)

	post, _ := svc.Create(context.Background(), "original", "original content", "owner")

	if err := svc.Update(context.Background(), post.ID, "hijacked", "hijacked", "intruder"); err != nil {
		t.Fatalf("Update() by non-owner error = %v, want nil", err)
	}

	if repo.posts[0].Title != "original" {
		t.Errorf("Title = %q, non-owner update must not change anything", repo.posts[0].Title)
	}
}

func TestPostUpdate_MissingPostIsSilentNoop(t *testing.T) {
	svc := newTestPostService(newFakePostRepo())

	if err := svc.Update(context.Background(), "no-such-post", "t", "c", "user-1"); err != nil {
		t.Errorf("Update() on a missing post error = %v, want nil", err)
	}
}

func TestPostDelete_NonOwnerIsSilentNoop(t *testing.T) {
	repo := newFakePostRepo()
	svc := newTestPostService(repo)

	post, _ := svc.Create(context.Background(), "survivor", "content", "owner")

	if err := svc.Delete(context.Background(), post.ID, "intruder"); err != nil {
		t.Fatalf("Delete() by non-owner error = %v, want nil", err)
	}
	if len(repo.posts) != 1 {
		t.Error("non-owner delete removed the post")
	}
}

func TestPostDelete_ByOwner(t *testing.T) {
	repo := newFakePostRepo()
	svc := newTestPostService(repo)

	post, _ := svc.Create(context.Background(), "doomed", "content", "owner")

	if err := svc.Delete(context.Background(), post.ID, "owner"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(repo.posts) != 0 {
		t.Error("Delete() by the owner left the post behind")
	}
}

func TestPostMutations_StorageFailure(t *testing.T) {
	repo := newFakePostRepo()
	repo.failWith = errors.New("database is locked")
	svc := newTestPostService(repo)

	if err := svc.Update(context.Background(), "id", "t", "c", "u"); !errors.Is(err, apperror.ErrStorageUnavailable) {
		t.Errorf("Update() error = %v, want ErrStorageUnavailable", err)
	}
	if err := svc.Delete(context.Background(), "id", "u"); !errors.Is(err, apperror.ErrStorageUnavailable) {
		t.Errorf("Delete() error = %v, want ErrStorageUnavailable", err)
	}
	if _, err := svc.Feed(context.Background()); !errors.Is(err, apperror.ErrStorageUnavailable) {
		t.Errorf("Feed() error = %v, want ErrStorageUnavailable", err)
	}
}
