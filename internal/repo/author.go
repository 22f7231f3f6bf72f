package repo

import (
	"context"
	"database/sql"

	"github.com/toolhub/toolhub/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type AuthorRepo struct {
	DB *sql.DB
}

func NewAuthorRepo(db *sql.DB) *AuthorRepo {
	return &AuthorRepo{DB: db}
}

// ========================
// CREATE AUTHOR
// ========================

func (r *AuthorRepo) Create(ctx context.Context, name string) (models.Author, error) {
	var a models.Author
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO authors (name) VALUES ($1) RETURNING id, name`, name,
	).Scan(&a.ID, &a.Name)
	return a, err
}

// ========================
// GET AUTHOR BY ID
// ========================

func (r *AuthorRepo) GetByID(ctx context.Context, id int) (models.Author, error) {
	var a models.Author
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name FROM authors WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name)
	return a, err
}

// ========================
// LIST AUTHORS (PAGINATED)
// ========================

func (r *AuthorRepo) ListPaginated(ctx context.Context, limit, offset int) ([]models.Author, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name FROM authors ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// ========================
// UPDATE AUTHOR BY ID
// ========================

func (r *AuthorRepo) UpdateByID(ctx context.Context, id int, name string) (models.Author, error) {
	var a models.Author
	err := r.DB.QueryRowContext(ctx,
		`UPDATE authors SET name = $1 WHERE id = $2 RETURNING id, name`, name, id,
	).Scan(&a.ID, &a.Name)
	return a, err
}

// ========================
// DELETE AUTHOR BY ID
// ========================

func (r *AuthorRepo) DeleteByID(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id)
	return err
}
