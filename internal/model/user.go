// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash holds the bcrypt digest produced by the credential store.
// The salt and cost are embedded in the digest itself, so there is no
// separate salt column. The plaintext password is never stored anywhere.
//
// The `json:"-"` tag on PasswordHash means the hash can never leak through
// a JSON encoding of a User, regardless of which handler does the encoding.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
