package utils

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "correct horse battery staple"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !CheckPassword(password, hash) {
		t.Error("expected matching password to verify")
	}

	if CheckPassword("wrong password", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	for _, role := range []string{"user", "coach", "admin"} {
		token, err := GenerateToken("42", role, secret)
		if err != nil {
			t.Fatalf("GenerateToken(%s): %v", role, err)
		}

		claims, err := ValidateToken(token, secret)
		if err != nil {
			t.Fatalf("ValidateToken(%s): %v", role, err)
		}

		if claims.UserID != "42" {
			t.Errorf("expected UserID 42, got %s", claims.UserID)
		}
		if claims.Role != role {
			t.Errorf("expected role %s, got %s", role, claims.Role)
		}
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("42", "user", "right-secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken(token, "wrong-secret"); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}

	if _, err := ValidateToken("not-a-token", "right-secret"); err == nil {
		t.Error("expected validation to fail for a malformed token")
	}
}
