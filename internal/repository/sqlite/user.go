package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/miniblog/internal/apperror"
	"github.com/sakif/miniblog/internal/model"
	"github.com/sakif/miniblog/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB is the users-table view of the shared pool. Users() hands one out
// so user and post methods live on distinct types while sharing the same
// underlying connections.
type UserDB struct {
	db *DB
}

func (db *DB) Users() *UserDB {
	return &UserDB{db: db}
}

// Create inserts a new user. ID and CreatedAt are generated here and written
// back into the caller's struct.
//
// The username travels only as a bound parameter; whatever quotes or SQL
// keywords it contains, it cannot alter the statement. A UNIQUE violation on
// username is translated to apperror.ErrDuplicateUsername so callers never
// sniff driver error strings themselves; a concurrent registration that beat
// the service's pre-insert check is caught here, with no partial write left
// behind.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := u.db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			return apperror.DuplicateUsername()
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetByUsername does an exact-match, case-sensitive lookup.
// Returns apperror.ErrNotFound if no such user exists.
func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var usr model.User

	err := u.db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(
		&usr.ID,
		&usr.Username,
		&usr.PasswordHash,
		&usr.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user by username: %w", err)
	}

	return &usr, nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	var usr model.User

	err := u.db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&usr.ID,
		&usr.Username,
		&usr.PasswordHash,
		&usr.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &usr, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column. modernc.org/sqlite exposes constraint failures only
// through the error text ("UNIQUE constraint failed: users.username"), so a
// substring check is the available signal.
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
