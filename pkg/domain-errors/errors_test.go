package domainerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeUnauthorized, "token rejected")
	if err.Error() != "token rejected" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !Is(err, CodeUnauthorized) {
		t.Fatalf("expected code %s", CodeUnauthorized)
	}
	if Is(err, CodeForbidden) {
		t.Fatalf("did not expect code %s", CodeForbidden)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "revocation check failed")

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
	if err.Error() != "revocation check failed: connection refused" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !HasCode(err, CodeInternal) {
		t.Fatalf("expected code %s", CodeInternal)
	}
}

func TestIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(CodeDuplicateEmail, "email already registered"))
	if !Is(err, CodeDuplicateEmail) {
		t.Fatalf("expected code to survive fmt.Errorf wrapping")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodeRateLimited, "slow down")); got != CodeRateLimited {
		t.Fatalf("expected %s, got %s", CodeRateLimited, got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Fatalf("expected non-domain errors to map to %s, got %s", CodeInternal, got)
	}
}
