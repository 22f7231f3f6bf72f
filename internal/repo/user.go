package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/toolhub/toolhub/internal/models"
)

// userColumns is the SELECT list shared by every user query.
const userColumns = `id, username, COALESCE(email, ''), COALESCE(name, ''),
	password_hash, is_active, is_staff, is_superuser, last_login, date_joined`

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, name, password_hash, is_active, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	out := &models.User{}

	err := r.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Name, user.PasswordHash,
		user.IsActive, user.IsStaff, user.IsSuperuser,
	).Scan(
		&out.ID, &out.Username, &out.Email, &out.Name,
		&out.PasswordHash, &out.IsActive, &out.IsStaff, &out.IsSuperuser,
		&out.LastLogin, &out.DateJoined,
	)

	if err != nil {
		return nil, err
	}

	return out, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
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
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.Name,
			&u.PasswordHash, &u.IsActive, &u.IsStaff, &u.IsSuperuser,
			&u.LastLogin, &u.DateJoined,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// ==========================
// Count Users
// ==========================
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// ==========================
// Touch Last Login
// ==========================
func (r *UserRepo) TouchLastLogin(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, id)
	return err
}

// ==========================
// Delete User
// ==========================

// Delete removes the user. The auth_tokens FK cascades, so the user's token
// dies in the same statement and can never authenticate a removed identity.
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return errors.New("user not found")
	}

	return nil
}
