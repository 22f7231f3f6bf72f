package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

const testKey = "0123456789abcdef0123456789abcdef01234567"

func TestTokenRepo_GetOrCreate_New(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO auth_tokens`).
		WithArgs(sqlmock.AnyArg(), 10).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "created_at"}).AddRow(testKey, 10, now))

	repo := NewTokenRepo(db)
	token, created, err := repo.GetOrCreate(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !created {
		t.Error("expected created=true for first issuance")
	}
	if token.Key != testKey || token.UserID != 10 {
		t.Errorf("unexpected token: %+v", token)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTokenRepo_GetOrCreate_Existing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// ON CONFLICT DO NOTHING returns no rows when the token already exists.
	mock.ExpectQuery(`INSERT INTO auth_tokens`).
		WithArgs(sqlmock.AnyArg(), 10).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "created_at"}))

	now := time.Now()
	mock.ExpectQuery(`SELECT key, user_id, created_at`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "created_at"}).AddRow(testKey, 10, now))

	repo := NewTokenRepo(db)
	token, created, err := repo.GetOrCreate(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if created {
		t.Error("expected created=false when a token already exists")
	}
	if token.Key != testKey {
		t.Errorf("expected the existing key back, got %q", token.Key)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTokenRepo_GetUserByKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM auth_tokens t`).
		WithArgs(testKey).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "name", "password_hash",
			"is_active", "is_staff", "is_superuser", "last_login", "date_joined",
		}).AddRow(10, "user@example.com", "user@example.com", "user", "x", true, false, false, nil, time.Now()))

	repo := NewTokenRepo(db)
	user, err := repo.GetUserByKey(context.Background(), testKey)
	if err != nil {
		t.Fatalf("GetUserByKey: %v", err)
	}
	if user.ID != 10 || user.Username != "user@example.com" || !user.IsActive {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTokenRepo_GetUserByKey_Miss(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM auth_tokens t`).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	repo := NewTokenRepo(db)
	_, err = repo.GetUserByKey(context.Background(), "unknown")
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTokenRepo_DeleteForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM auth_tokens WHERE user_id = \$1`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewTokenRepo(db)
	if err := repo.DeleteForUser(context.Background(), 10); err != nil {
		t.Fatalf("DeleteForUser: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
