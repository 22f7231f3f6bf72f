package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// TokenKeyBytes is the number of random bytes in a token key. Rendered as hex
// the key is twice as many characters.
const TokenKeyBytes = 20

// Token is an opaque API credential bound to exactly one user.
type Token struct {
	Key     string    `json:"key"`
	UserID  int       `json:"user"`
	Created time.Time `json:"created"`
}

// GenerateTokenKey returns a new random key as a lowercase hex string.
func GenerateTokenKey() (string, error) {
	b := make([]byte, TokenKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
