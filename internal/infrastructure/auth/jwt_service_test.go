package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/you/accountsvc/domain"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", "accountsvc", 30*time.Minute)

	token, err := svc.Generate("acc-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.AccountID != "acc-123" {
		t.Errorf("expected account id acc-123, got %s", claims.AccountID)
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		t.Error("expected expiry after issue time")
	}
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	svc := NewJWTService("test-secret", "accountsvc", 30*time.Minute)

	a, _ := svc.Generate("acc-123")
	b, _ := svc.Generate("acc-123")
	if a == b {
		t.Error("expected distinct tokens for distinct issuances")
	}
}

func TestJWTService_Validate_Tampered(t *testing.T) {
	svc := NewJWTService("test-secret", "accountsvc", 30*time.Minute)

	token, err := svc.Generate("acc-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Flip a character in the signature segment
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)
	tampered := strings.Join(parts, ".")

	if _, err := svc.Validate(tampered); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
}

func TestJWTService_Validate_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", "accountsvc", -time.Minute)

	token, err := svc.Generate("acc-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired for stale token, got %v", err)
	}
}

func TestJWTService_Validate_WrongKey(t *testing.T) {
	issuing := NewJWTService("secret-a", "accountsvc", 30*time.Minute)
	verifying := NewJWTService("secret-b", "accountsvc", 30*time.Minute)

	token, _ := issuing.Generate("acc-123")
	if _, err := verifying.Validate(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for wrong key, got %v", err)
	}
}

func TestJWTService_Validate_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", "accountsvc", 30*time.Minute)

	if _, err := svc.Validate("not-a-jwt"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for garbage input, got %v", err)
	}
}
