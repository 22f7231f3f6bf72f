package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"

	"github.com/toolhub/toolhub/internal/middleware"
	"github.com/toolhub/toolhub/internal/models"
	"github.com/toolhub/toolhub/internal/repo"
)

type BookHandler struct {
	Repo      *repo.BookRepo
	AuditRepo *repo.AuditRepo
}

type bookInput struct {
	Name   string `json:"name" validate:"required,min=1,max=255"`
	Author int    `json:"author" validate:"required,gt=0"`
}

//
// ==========================
// Create Book
// ==========================
//

func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var input bookInput

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	book, err := h.Repo.Create(r.Context(), input.Name, input.Author)
	if err != nil {
		// FK violation: the referenced author does not exist.
		if e, ok := err.(*pq.Error); ok && e.Code == "23503" {
			JSONValidationError(w, "validation failed", map[string]string{"author": "unknown author"}, http.StatusBadRequest)
			return
		}
		JSONError(w, "failed to create book", http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		if userID, ok := middleware.GetUserID(r.Context()); ok {
			_ = h.AuditRepo.Log(r.Context(), userID, "create", "book", strconv.Itoa(book.ID), "")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

//
// ==========================
// List Books
// ==========================
//

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 10)

	books, err := h.Repo.ListPaginated(r.Context(), limit, offset)
	if err != nil {
		JSONError(w, "failed to fetch books", http.StatusInternalServerError)
		return
	}

	if books == nil {
		books = []models.Book{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(books)
}

//
// ==========================
// Get Book By ID
// ==========================
//

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid book id", http.StatusBadRequest)
		return
	}

	book, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "book not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

//
// ==========================
// Update Book
// ==========================
//

func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid book id", http.StatusBadRequest)
		return
	}

	var input bookInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	book, err := h.Repo.UpdateByID(r.Context(), id, input.Name, input.Author)
	if err == sql.ErrNoRows {
		JSONError(w, "book not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, "failed to update book", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

//
// ==========================
// Delete Book
// ==========================
//

func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid book id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.DeleteByID(r.Context(), id); err != nil {
		JSONError(w, "failed to delete book", http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		if userID, ok := middleware.GetUserID(r.Context()); ok {
			_ = h.AuditRepo.Log(r.Context(), userID, "delete", "book", strconv.Itoa(id), "")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
