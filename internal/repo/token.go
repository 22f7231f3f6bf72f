package repo

import (
	"context"
	"database/sql"

	"github.com/toolhub/toolhub/internal/models"
)

// ==========================
// TokenRepo
// ==========================
type TokenRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{DB: db}
}

// ==========================
// Get Or Create
// ==========================

// GetOrCreate returns the user's token, creating one with a fresh random key
// if none exists yet. The auth_tokens.user_id unique constraint serializes
// concurrent calls: ON CONFLICT DO NOTHING makes the losing insert fall
// through to reading the winner's row, so at most one token per user is ever
// visible. The returned bool reports whether a new token was created.
func (r *TokenRepo) GetOrCreate(ctx context.Context, userID int) (models.Token, bool, error) {
	var token models.Token

	key, err := models.GenerateTokenKey()
	if err != nil {
		return token, false, err
	}

	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO auth_tokens (key, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING key, user_id, created_at
	`, key, userID).Scan(&token.Key, &token.UserID, &token.Created)

	if err == nil {
		return token, true, nil
	}
	if err != sql.ErrNoRows {
		return token, false, err
	}

	// Conflict: another call won the insert. Return the existing token.
	err = r.DB.QueryRowContext(ctx, `
		SELECT key, user_id, created_at
		FROM auth_tokens
		WHERE user_id = $1
	`, userID).Scan(&token.Key, &token.UserID, &token.Created)

	return token, false, err
}

// ==========================
// Get User By Key
// ==========================

// GetUserByKey resolves a token key to its owning user. Lookup is exact and
// case-sensitive; a miss surfaces as sql.ErrNoRows. The caller decides what
// an inactive user means, this is a pure read.
func (r *TokenRepo) GetUserByKey(ctx context.Context, key string) (*models.User, error) {
	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, `
		SELECT u.id, u.username, COALESCE(u.email, ''), COALESCE(u.name, ''),
		       u.password_hash, u.is_active, u.is_staff, u.is_superuser,
		       u.last_login, u.date_joined
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.key = $1
	`, key).Scan(
		&user.ID, &user.Username, &user.Email, &user.Name,
		&user.PasswordHash, &user.IsActive, &user.IsStaff, &user.IsSuperuser,
		&user.LastLogin, &user.DateJoined,
	)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Delete For User
// ==========================

// DeleteForUser removes the user's token. The FK cascade covers user
// deletion; this exists for explicit revocation.
func (r *TokenRepo) DeleteForUser(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, userID)
	return err
}
