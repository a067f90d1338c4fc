package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/miniblog/internal/model"
	"github.com/sakif/miniblog/internal/repository"
)

// compile-time check that *PostDB implements repository.PostRepository
var _ repository.PostRepository = (*PostDB)(nil)

// PostDB is the posts-table view of the shared pool, handed out by Posts().
type PostDB struct {
	db *DB
}

func (db *DB) Posts() *PostDB {
	return &PostDB{db: db}
}

// Create inserts a new post. ID and CreatedAt are generated here; the
// service has already validated title/content and supplied the author from
// the session, never from client input.
func (p *PostDB) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now().UTC()

	_, err := p.db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Content,
		post.UserID,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// ListWithAuthors returns every post joined with its author's username,
// newest first.
//
// The secondary ORDER BY on id makes the sort stable: xids embed their
// creation instant, so two posts sharing a created_at come back in
// insertion order.
func (p *PostDB) ListWithAuthors(ctx context.Context) ([]model.PostWithAuthor, error) {
	rows, err := p.db.conn.QueryContext(ctx,
		`SELECT p.id, p.title, p.content, p.user_id, p.created_at, u.username
		 FROM posts p
		 JOIN users u ON p.user_id = u.id
		 ORDER BY p.created_at DESC, p.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	var posts []model.PostWithAuthor
	for rows.Next() {
		var pa model.PostWithAuthor
		if err := rows.Scan(
			&pa.ID, &pa.Title, &pa.Content, &pa.UserID, &pa.CreatedAt,
			&pa.AuthorUsername,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, pa)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Update changes title and content only when the post exists and is owned
// by requesterID. The ownership check lives in the WHERE clause, so a
// non-owner (or a missing post) affects zero rows; reported as a no-op,
// never an error. created_at is immutable.
func (p *PostDB) Update(ctx context.Context, id, title, content, requesterID string) (bool, error) {
	result, err := p.db.conn.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?
		 WHERE id = ? AND user_id = ?`,
		title,
		content,
		id,
		requesterID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: updating post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Delete removes the post under the same ownership guard as Update.
func (p *PostDB) Delete(ctx context.Context, id, requesterID string) (bool, error) {
	result, err := p.db.conn.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ? AND user_id = ?`,
		id,
		requesterID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
