package repo

import (
	"context"
	"database/sql"

	"github.com/toolhub/toolhub/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type BookRepo struct {
	DB *sql.DB
}

func NewBookRepo(db *sql.DB) *BookRepo {
	return &BookRepo{DB: db}
}

// ========================
// CREATE BOOK
// ========================

func (r *BookRepo) Create(ctx context.Context, name string, authorID int) (models.Book, error) {
	var b models.Book
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO books (name, author_id) VALUES ($1, $2) RETURNING id, name, author_id`,
		name, authorID,
	).Scan(&b.ID, &b.Name, &b.AuthorID)
	return b, err
}

// ========================
// GET BOOK BY ID
// ========================

func (r *BookRepo) GetByID(ctx context.Context, id int) (models.Book, error) {
	var b models.Book
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, author_id FROM books WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.AuthorID)
	return b, err
}

// ========================
// LIST BOOKS (PAGINATED)
// ========================

func (r *BookRepo) ListPaginated(ctx context.Context, limit, offset int) ([]models.Book, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, author_id FROM books ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Name, &b.AuthorID); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// ========================
// UPDATE BOOK BY ID
// ========================

func (r *BookRepo) UpdateByID(ctx context.Context, id int, name string, authorID int) (models.Book, error) {
	var b models.Book
	err := r.DB.QueryRowContext(ctx,
		`UPDATE books SET name = $1, author_id = $2 WHERE id = $3 RETURNING id, name, author_id`,
		name, authorID, id,
	).Scan(&b.ID, &b.Name, &b.AuthorID)
	return b, err
}

// ========================
// DELETE BOOK BY ID
// ========================

func (r *BookRepo) DeleteByID(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	return err
}
