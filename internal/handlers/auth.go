package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/toolhub/toolhub/internal/metrics"
	"github.com/toolhub/toolhub/internal/repo"
)

// msgInvalidCredentials is the single message for every credential failure.
// Unknown username, wrong password, and inactive account all produce the same
// 400 response so the endpoint cannot be used to enumerate accounts.
const msgInvalidCredentials = "unable to log in with provided credentials"

// ==========================
// Auth Handler
// ==========================

// AuthHandler is the standalone login endpoint. POST with username/password
// returns the user's API token, minting one on first login.
type AuthHandler struct {
	Users  *repo.UserRepo
	Tokens *repo.TokenRepo
	Audit  *repo.AuditRepo
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		JSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.ObtainToken(w, r)
}

// ==========================
// Obtain Token (login)
// ==========================
func (h *AuthHandler) ObtainToken(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string)
	if input.Username == "" {
		fields["username"] = "required"
	}
	if input.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	if err == sql.ErrNoRows {
		metrics.LoginFailures.Inc()
		JSONError(w, msgInvalidCredentials, http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("login: user lookup failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if !user.IsActive || !user.CheckPassword(input.Password) {
		metrics.LoginFailures.Inc()
		JSONError(w, msgInvalidCredentials, http.StatusBadRequest)
		return
	}

	token, created, err := h.Tokens.GetOrCreate(r.Context(), user.ID)
	if err != nil {
		slog.Error("login: token get-or-create failed", "error", err, "user_id", user.ID)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if created {
		metrics.TokensIssued.Inc()
		if h.Audit != nil {
			_ = h.Audit.Log(r.Context(), user.ID, "create", "token", "", "")
		}
	}

	// Best-effort: a failed timestamp update must not fail the login.
	if err := h.Users.TouchLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("login: last_login update failed", "error", err, "user_id", user.ID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token.Key})
}
