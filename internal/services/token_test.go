package services

import (
	"errors"
	"testing"
	"time"

	"github.com/AliiiBenn/mini-auth/internal/models"
)

func TestScopeProjectID(t *testing.T) {
	tests := []struct {
		name   string
		scope  string
		wantID string
		wantOK bool
	}{
		{"project scope", "project:abc-123", "abc-123", true},
		{"platform scope", "platform", "", false},
		{"empty project id", "project:", "", false},
		{"empty scope", "", "", false},
		{"garbage", "something-else", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ScopeProjectID(tt.scope)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ScopeProjectID(%q) = (%q, %v), want (%q, %v)",
					tt.scope, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestScopeForUser(t *testing.T) {
	platform := &models.User{ID: "u1"}
	if got := ScopeForUser(platform); got != ScopePlatform {
		t.Errorf("platform user scope = %q, want %q", got, ScopePlatform)
	}

	projectID := "p1"
	client := &models.User{ID: "u2", ProjectID: &projectID}
	if got := ScopeForUser(client); got != "project:p1" {
		t.Errorf("client user scope = %q, want %q", got, "project:p1")
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := NewTokenService(newTestDB(t), testJWTConfig())

	token, expiresAt, err := svc.IssueAccessToken("user-1", ScopePlatform)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiry should be in the future")
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want %q", claims.Subject, "user-1")
	}
	if claims.Scope != ScopePlatform {
		t.Errorf("scope = %q, want %q", claims.Scope, ScopePlatform)
	}
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	db := newTestDB(t)
	issuer := NewTokenService(db, testJWTConfig())
	token, _, err := issuer.IssueAccessToken("user-1", ScopePlatform)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	otherCfg := testJWTConfig()
	otherCfg.Secret = "a-different-secret"
	verifier := NewTokenService(db, otherCfg)

	if _, err := verifier.ValidateAccessToken(token); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := NewTokenService(newTestDB(t), testJWTConfig())
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.ValidateAccessToken(token); !errors.Is(err, ErrAuthenticationFailed) {
			t.Errorf("ValidateAccessToken(%q): expected ErrAuthenticationFailed, got %v", token, err)
		}
	}
}

// The token is invalid at the exact expiry instant, not one second later.
func TestValidateAccessToken_ExpiryBoundary(t *testing.T) {
	db := newTestDB(t)
	issuedAt := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(30 * time.Minute)

	svc := NewTokenService(db, testJWTConfig()).WithClock(func() time.Time { return issuedAt })
	token, _, err := svc.IssueAccessToken("user-1", ScopePlatform)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	justBefore := svc.WithClock(func() time.Time { return expiresAt.Add(-time.Second) })
	if _, err := justBefore.ValidateAccessToken(token); err != nil {
		t.Errorf("token should be valid one second before expiry, got %v", err)
	}

	atExpiry := svc.WithClock(func() time.Time { return expiresAt })
	if _, err := atExpiry.ValidateAccessToken(token); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("token should be invalid at the expiry instant, got %v", err)
	}
}

func TestRefreshToken_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	user := createPlatformUser(t, db, "owner@example.com")
	svc := NewTokenService(db, testJWTConfig())

	value, record, err := svc.IssueRefreshToken(user.ID, "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("IssueRefreshToken failed: %v", err)
	}
	if record.TokenHash == value {
		t.Error("stored hash must not equal the plaintext value")
	}
	if len(record.TokenHash) != 64 {
		t.Errorf("token hash length = %d, want 64", len(record.TokenHash))
	}

	stored, err := svc.ValidateRefreshToken(value)
	if err != nil {
		t.Fatalf("ValidateRefreshToken failed: %v", err)
	}
	if stored.UserID != user.ID {
		t.Errorf("user id = %q, want %q", stored.UserID, user.ID)
	}
	if stored.LastUsedAt == nil {
		t.Error("last_used_at should be set after validation")
	}

	if err := svc.RevokeRefreshToken(value); err != nil {
		t.Fatalf("RevokeRefreshToken failed: %v", err)
	}
	if _, err := svc.ValidateRefreshToken(value); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("revoked token should fail validation, got %v", err)
	}

	// Revoking again is a no-op success.
	if err := svc.RevokeRefreshToken(value); err != nil {
		t.Errorf("second revoke should succeed, got %v", err)
	}
}

func TestValidateRefreshToken_Unknown(t *testing.T) {
	svc := NewTokenService(newTestDB(t), testJWTConfig())
	if _, err := svc.ValidateRefreshToken("no-such-token"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed, got %v", err)
	}
	if _, err := svc.ValidateRefreshToken(""); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed for empty value, got %v", err)
	}
}

func TestValidateRefreshToken_Expired(t *testing.T) {
	db := newTestDB(t)
	user := createPlatformUser(t, db, "owner@example.com")

	issuedAt := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService(db, testJWTConfig()).WithClock(func() time.Time { return issuedAt })

	value, record, err := svc.IssueRefreshToken(user.ID, "", "")
	if err != nil {
		t.Fatalf("IssueRefreshToken failed: %v", err)
	}

	later := svc.WithClock(func() time.Time { return record.ExpiresAt })
	if _, err := later.ValidateRefreshToken(value); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("token should be expired at its expiry instant, got %v", err)
	}
}

func TestRevokeAllRefreshTokens(t *testing.T) {
	db := newTestDB(t)
	user := createPlatformUser(t, db, "owner@example.com")
	other := createPlatformUser(t, db, "other@example.com")
	svc := NewTokenService(db, testJWTConfig())

	var values []string
	for i := 0; i < 3; i++ {
		value, _, err := svc.IssueRefreshToken(user.ID, "", "")
		if err != nil {
			t.Fatalf("IssueRefreshToken failed: %v", err)
		}
		values = append(values, value)
	}
	otherValue, _, err := svc.IssueRefreshToken(other.ID, "", "")
	if err != nil {
		t.Fatalf("IssueRefreshToken failed: %v", err)
	}

	revoked, err := svc.RevokeAllRefreshTokens(user.ID)
	if err != nil {
		t.Fatalf("RevokeAllRefreshTokens failed: %v", err)
	}
	if revoked != 3 {
		t.Errorf("revoked = %d, want 3", revoked)
	}

	for _, value := range values {
		if _, err := svc.ValidateRefreshToken(value); !errors.Is(err, ErrAuthenticationFailed) {
			t.Errorf("user token should be revoked, got %v", err)
		}
	}
	if _, err := svc.ValidateRefreshToken(otherValue); err != nil {
		t.Errorf("another user's token should survive, got %v", err)
	}
}
