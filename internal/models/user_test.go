package models

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestUser_SetPasswordNeverStoresPlaintext(t *testing.T) {
	u := &User{Username: "alice"}
	if err := u.SetPassword("foobar", bcrypt.MinCost); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if u.PasswordHash == "" || strings.Contains(u.PasswordHash, "foobar") {
		t.Errorf("password stored in plaintext: %q", u.PasswordHash)
	}
	if !u.CheckPassword("foobar") {
		t.Error("correct password rejected")
	}
	if u.CheckPassword("wrong") {
		t.Error("wrong password accepted")
	}
	if u.CheckPassword("") {
		t.Error("empty password accepted")
	}
}
