package web

import "testing"

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"widgets", "user_table", "_private", "a1"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "123start", "has-dash", "has space", "../escape"}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = true, want false", s)
		}
	}
}
