package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		err      error
	}{
		{input: "ada@example.org", expected: "ada@example.org"},
		{input: "  Ada@Example.ORG ", expected: "ada@example.org"},
		{input: "", err: ErrEmptyEmail},
		{input: "   ", err: ErrEmptyEmail},
		{input: "ada", err: ErrInvalidEmail},
		{input: "ada@localhost", err: ErrInvalidEmail},
		{input: "Ada <ada@example.org>", err: ErrInvalidEmail},
		{input: "@example.org", err: ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeEmail(tt.input)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("NormalizeEmail(%q) error = %v, want %v", tt.input, err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeEmail(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
	if err := ValidatePassword("12345"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Errorf("expected six characters to pass, got %v", err)
	}
}

func TestNormalizeName(t *testing.T) {
	name, err := NormalizeName("  Ada Lovelace ")
	if err != nil || name != "Ada Lovelace" {
		t.Errorf("NormalizeName = %q, %v", name, err)
	}
	if _, err := NormalizeName(" "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if _, err := NormalizeName(strings.Repeat("x", MaxNameLength+1)); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("expected ErrNameTooLong, got %v", err)
	}
}
