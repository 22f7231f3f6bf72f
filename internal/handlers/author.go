package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/toolhub/toolhub/internal/middleware"
	"github.com/toolhub/toolhub/internal/models"
	"github.com/toolhub/toolhub/internal/repo"
)

type AuthorHandler struct {
	Repo      *repo.AuthorRepo
	AuditRepo *repo.AuditRepo
}

//
// ==========================
// Create Author
// ==========================
//

func (h *AuthorHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name" validate:"required,min=1,max=255"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	author, err := h.Repo.Create(r.Context(), input.Name)
	if err != nil {
		JSONError(w, "failed to create author", http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		if userID, ok := middleware.GetUserID(r.Context()); ok {
			_ = h.AuditRepo.Log(r.Context(), userID, "create", "author", strconv.Itoa(author.ID), "")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(author)
}

//
// ==========================
// List Authors
// ==========================
//

func (h *AuthorHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 10)

	authors, err := h.Repo.ListPaginated(r.Context(), limit, offset)
	if err != nil {
		JSONError(w, "failed to fetch authors", http.StatusInternalServerError)
		return
	}

	if authors == nil {
		authors = []models.Author{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authors)
}

//
// ==========================
// Get Author By ID
// ==========================
//

func (h *AuthorHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid author id", http.StatusBadRequest)
		return
	}

	author, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "author not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(author)
}

//
// ==========================
// Update Author
// ==========================
//

func (h *AuthorHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid author id", http.StatusBadRequest)
		return
	}

	var input struct {
		Name string `json:"name" validate:"required,min=1,max=255"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	author, err := h.Repo.UpdateByID(r.Context(), id, input.Name)
	if err == sql.ErrNoRows {
		JSONError(w, "author not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, "failed to update author", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(author)
}

//
// ==========================
// Delete Author
// ==========================
//

func (h *AuthorHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid author id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.DeleteByID(r.Context(), id); err != nil {
		JSONError(w, "failed to delete author", http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		if userID, ok := middleware.GetUserID(r.Context()); ok {
			_ = h.AuditRepo.Log(r.Context(), userID, "delete", "author", strconv.Itoa(id), "")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
