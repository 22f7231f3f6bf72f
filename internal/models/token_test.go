package models

import (
	"regexp"
	"testing"
)

var hexKey = regexp.MustCompile(`^[0-9a-f]{40}$`)

func TestGenerateTokenKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := GenerateTokenKey()
		if err != nil {
			t.Fatalf("GenerateTokenKey: %v", err)
		}
		if !hexKey.MatchString(key) {
			t.Fatalf("key %q is not 40 lowercase hex chars", key)
		}
		if seen[key] {
			t.Fatalf("duplicate key generated: %q", key)
		}
		seen[key] = true
	}
}
