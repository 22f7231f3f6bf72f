package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/toolhub/toolhub/internal/repo"
)

const sampleTokenKey = "9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b"

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	h := &AuthHandler{
		Users:  repo.NewUserRepo(db),
		Tokens: repo.NewTokenRepo(db),
	}
	return h, mock, func() { db.Close() }
}

func activeUserRows(t *testing.T, id int, username, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return sqlmock.NewRows([]string{
		"id", "username", "email", "name", "password_hash",
		"is_active", "is_staff", "is_superuser", "last_login", "date_joined",
	}).AddRow(id, username, username, "user", string(hash), true, false, false, nil, time.Now())
}

func postLogin(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestObtainToken_FirstLoginMintsToken(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(activeUserRows(t, 1, "alice", "s3cret"))
	mock.ExpectQuery(`INSERT INTO auth_tokens`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "created_at"}).
			AddRow(sampleTokenKey, 1, time.Now()))
	mock.ExpectExec(`UPDATE users SET last_login = now\(\)`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := postLogin(h, `{"username":"alice","password":"s3cret"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["token"] != sampleTokenKey {
		t.Errorf("token = %q, want %q", resp["token"], sampleTokenKey)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestObtainToken_RepeatLoginReturnsSameToken(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(activeUserRows(t, 1, "alice", "s3cret"))
	// The insert hits the one-token-per-user constraint and yields no row;
	// the stored key comes back from the follow-up select.
	mock.ExpectQuery(`INSERT INTO auth_tokens`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "created_at"}))
	mock.ExpectQuery(`SELECT key, user_id, created_at`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "created_at"}).
			AddRow(sampleTokenKey, 1, time.Now()))
	mock.ExpectExec(`UPDATE users SET last_login = now\(\)`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := postLogin(h, `{"username":"alice","password":"s3cret"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["token"] != sampleTokenKey {
		t.Errorf("token = %q, want the existing key %q", resp["token"], sampleTokenKey)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// Unknown username, wrong password, and inactive account must be
// indistinguishable to the caller: same status, same body.
func TestObtainToken_CredentialFailuresAreUniform(t *testing.T) {
	var responses []*httptest.ResponseRecorder

	t.Run("unknown username", func(t *testing.T) {
		h, mock, done := newAuthHandler(t)
		defer done()
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE username = \$1`).
			WithArgs("nobody").
			WillReturnError(sql.ErrNoRows)
		rr := postLogin(h, `{"username":"nobody","password":"s3cret"}`)
		responses = append(responses, rr)
	})

	t.Run("wrong password", func(t *testing.T) {
		h, mock, done := newAuthHandler(t)
		defer done()
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE username = \$1`).
			WithArgs("alice").
			WillReturnRows(activeUserRows(t, 1, "alice", "s3cret"))
		rr := postLogin(h, `{"username":"alice","password":"wrong"}`)
		responses = append(responses, rr)
	})

	t.Run("inactive account", func(t *testing.T) {
		h, mock, done := newAuthHandler(t)
		defer done()
		hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
		rows := sqlmock.NewRows([]string{
			"id", "username", "email", "name", "password_hash",
			"is_active", "is_staff", "is_superuser", "last_login", "date_joined",
		}).AddRow(1, "alice", "alice", "user", string(hash), false, false, false, nil, time.Now())
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE username = \$1`).
			WithArgs("alice").
			WillReturnRows(rows)
		rr := postLogin(h, `{"username":"alice","password":"s3cret"}`)
		responses = append(responses, rr)
	})

	for i, rr := range responses {
		if rr.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, rr.Code)
		}
		if rr.Body.String() != responses[0].Body.String() {
			t.Errorf("case %d: body %q differs from %q", i, rr.Body.String(), responses[0].Body.String())
		}
	}
	if !strings.Contains(responses[0].Body.String(), msgInvalidCredentials) {
		t.Errorf("body %q missing credential message", responses[0].Body.String())
	}
}

func TestObtainToken_MissingFields(t *testing.T) {
	h, _, done := newAuthHandler(t)
	defer done()

	rr := postLogin(h, `{"username":"alice"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Fields["password"] != "required" {
		t.Errorf("fields = %+v, want password marked required", resp.Fields)
	}
}

func TestObtainToken_MethodNotAllowed(t *testing.T) {
	h, _, done := newAuthHandler(t)
	defer done()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}
