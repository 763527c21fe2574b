package utils

import (
	"regexp"
	"testing"
)

func TestGenerateOTP(t *testing.T) {
	sixDigits := regexp.MustCompile(`^[1-9][0-9]{5}$`)

	code := GenerateOTP("user@example.com:1700000000")
	if !sixDigits.MatchString(code) {
		t.Fatalf("expected a 6-digit code, got %q", code)
	}

	// Deterministic for the same key, different for different keys.
	if again := GenerateOTP("user@example.com:1700000000"); again != code {
		t.Fatalf("same key produced different codes: %q vs %q", code, again)
	}
	if other := GenerateOTP("user@example.com:1700000001"); other == code {
		t.Fatalf("different keys produced the same code: %q", code)
	}
}
