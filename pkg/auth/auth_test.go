package auth

import (
	"testing"
	"time"

	apperrors "slotline/pkg/errors"
)

const testSecret = "test-secret-at-least-16-chars"

func TestLogin_RoundTrip(t *testing.T) {
	a := NewAuthenticator("admin", "hunter2", testSecret, 2*time.Hour)

	tok, err := a.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok == "" {
		t.Fatal("expected a non-empty token")
	}

	claims, err := a.Verify(tok)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("expected role %q, got %q", RoleAdmin, claims.Role)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	a := NewAuthenticator("admin", "hunter2", testSecret, 2*time.Hour)

	tests := []struct {
		name     string
		user     string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"wrong username", "root", "hunter2"},
		{"both wrong", "root", "nope"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Login(tt.user, tt.password)
			if err == nil {
				t.Fatal("expected an error")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Code != apperrors.CodeUnauthorized {
				t.Errorf("expected %s, got %s", apperrors.CodeUnauthorized, appErr.Code)
			}
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	a := NewAuthenticator("admin", "hunter2", testSecret, -1*time.Minute)

	tok, err := a.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := a.Verify(tok); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewAuthenticator("admin", "hunter2", testSecret, 2*time.Hour)
	verifier := NewAuthenticator("admin", "hunter2", "another-secret-16-chars!", 2*time.Hour)

	tok, err := issuer.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := verifier.Verify(tok); err == nil {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}

func TestVerify_Malformed(t *testing.T) {
	a := NewAuthenticator("admin", "hunter2", testSecret, 2*time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := a.Verify(tok); err == nil {
			t.Errorf("expected malformed token %q to be rejected", tok)
		}
	}
}
