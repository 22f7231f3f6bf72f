package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"

	"github.com/toolhub/toolhub/internal/middleware"
	"github.com/toolhub/toolhub/internal/models"
	"github.com/toolhub/toolhub/internal/repo"
)

type ToolHandler struct {
	Repo      *repo.ToolRepo
	AuditRepo *repo.AuditRepo
}

// toolRequired carries the fields a tool description cannot omit.
type toolRequired struct {
	ID         string `validate:"required,max=255"`
	Class      string `validate:"required"`
	Label      string `validate:"required"`
	CWLVersion string `validate:"omitempty,oneof=cwl:draft-2"`
}

//
// ==========================
// Create Tool
// ==========================
//

func (h *ToolHandler) CreateTool(w http.ResponseWriter, r *http.Request) {
	var input models.Tool

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(toolRequired{
		ID:         input.ID,
		Class:      input.Class,
		Label:      input.Label,
		CWLVersion: input.CWLVersion,
	}); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tool, err := h.Repo.Create(r.Context(), &input)
	if err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			JSONValidationError(w, "validation failed", map[string]string{"id": "already exists"}, http.StatusBadRequest)
			return
		}
		JSONError(w, "failed to create tool", http.StatusInternalServerError)
		return
	}

	h.audit(r, "create", tool.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tool)
}

//
// ==========================
// List Tools
// ==========================
//

func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 10)

	// Optional search by label
	label := r.URL.Query().Get("label")

	var tools []models.Tool
	var err error

	if label != "" {
		tools, err = h.Repo.SearchPaginated(r.Context(), label, limit, offset)
	} else {
		tools, err = h.Repo.ListPaginated(r.Context(), limit, offset)
	}

	if err != nil {
		JSONError(w, "failed to fetch tools", http.StatusInternalServerError)
		return
	}

	if tools == nil {
		tools = []models.Tool{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tools)
}

//
// ==========================
// Get Tool By ID
// ==========================
//

func (h *ToolHandler) GetTool(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		JSONError(w, "invalid tool id", http.StatusBadRequest)
		return
	}

	tool, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "tool not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tool)
}

//
// ==========================
// Update Tool
// ==========================
//

func (h *ToolHandler) UpdateTool(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		JSONError(w, "invalid tool id", http.StatusBadRequest)
		return
	}

	var input models.Tool
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	input.ID = id

	validate := validator.New()
	if err := validate.Struct(toolRequired{
		ID:         input.ID,
		Class:      input.Class,
		Label:      input.Label,
		CWLVersion: input.CWLVersion,
	}); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tool, err := h.Repo.UpdateByID(r.Context(), &input)
	if err == sql.ErrNoRows {
		JSONError(w, "tool not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, "failed to update tool", http.StatusInternalServerError)
		return
	}

	h.audit(r, "update", tool.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tool)
}

//
// ==========================
// Delete Tool
// ==========================
//

func (h *ToolHandler) DeleteTool(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		JSONError(w, "invalid tool id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.DeleteByID(r.Context(), id); err != nil {
		JSONError(w, "failed to delete tool", http.StatusInternalServerError)
		return
	}

	h.audit(r, "delete", id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *ToolHandler) audit(r *http.Request, action, toolID string) {
	if h.AuditRepo == nil {
		return
	}
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		_ = h.AuditRepo.Log(r.Context(), userID, action, "tool", toolID, "")
	}
}
