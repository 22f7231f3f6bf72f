package models

import (
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           int          `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"`
	IsActive     bool         `json:"is_active"`
	IsStaff      bool         `json:"is_staff"`
	IsSuperuser  bool         `json:"is_superuser"`
	LastLogin    sql.NullTime `json:"-"`
	DateJoined   time.Time    `json:"date_joined"`
}

// SetPassword hashes raw with bcrypt and stores the hash. Always use this
// rather than assigning to PasswordHash directly.
func (u *User) SetPassword(raw string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies raw against the stored bcrypt hash.
func (u *User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}
