package model

import "time"

// Post represents a single blog post.
//
// UserID is the owning user's ID; the ownership relation that gates every
// edit and delete. Title and Content are untrusted free text; the template
// layer escapes them on output, and they are stored byte-for-byte as given.
// CreatedAt is set once by the server at creation and never changes.
type Post struct {
	ID        string    `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	Content   string    `json:"content"   db:"content"`
	UserID    string    `json:"userId"    db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PostWithAuthor is a Post joined with its author's username, as shown on
// the shared feed. The join happens in the repository; no handler ever
// resolves authors one-by-one.
type PostWithAuthor struct {
	Post
	AuthorUsername string `json:"authorUsername" db:"author_username"`
}
