package session

import (
	"testing"
	"time"
)

func TestIssueAndValidateRoundTrip(t *testing.T) {
	iss := NewIssuer([]byte("test-secret"), time.Minute)

	token, err := iss.Issue("alice", "auth-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := iss.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.User != "alice" || claims.AuthID != "auth-123" {
		t.Fatalf("claims = %+v, want User=alice AuthID=auth-123", claims)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	iss := NewIssuer([]byte("secret-a"), time.Minute)
	other := NewIssuer([]byte("secret-b"), time.Minute)

	token, err := iss.Issue("alice", "auth-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Validate(token); err == nil {
		t.Fatal("expected validation to fail with the wrong secret")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	iss := NewIssuer([]byte("test-secret"), -time.Minute) // already expired

	token, err := iss.Issue("alice", "auth-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := iss.Validate(token); err == nil {
		t.Fatal("expected validation to fail for an expired token")
	}
}
