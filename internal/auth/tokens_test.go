package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/streamhub/backend/internal/models"
)

func newTestService(store *InMemoryCredentialStore) *TokenService {
	return NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 240*time.Hour, store)
}

func seedUser(store *InMemoryCredentialStore) models.User {
	user := models.User{
		ID:       "a4f9d6be-6f58-4f7a-9a2e-0d2c5f6f7a10",
		Username: "alice",
		Email:    "alice@example.com",
	}
	store.Put(user)
	return user
}

func TestIssuePairAndVerify(t *testing.T) {
	store := NewInMemoryCredentialStore()
	user := seedUser(store)
	svc := newTestService(store)

	tokens, err := svc.IssuePair(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected non-empty tokens: %+v", tokens)
	}
	if tokens.AccessToken == tokens.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}
	if got := store.StoredToken(user.ID); got != tokens.RefreshToken {
		t.Fatalf("stored refresh token mismatch: got %q", got)
	}

	claims, err := svc.VerifyAccess(tokens.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.Subject != user.ID || claims.Username != "alice" || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	store := NewInMemoryCredentialStore()
	user := seedUser(store)
	svc := newTestService(store)

	tokens, err := svc.IssuePair(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	if _, err := svc.VerifyAccess(tokens.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken got %v", err)
	}
}

func TestVerifyAccessExpired(t *testing.T) {
	store := NewInMemoryCredentialStore()
	user := seedUser(store)
	svc := newTestService(store)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.NowFunc = func() time.Time { return base }

	tokens, err := svc.IssuePair(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	svc.NowFunc = func() time.Time { return base.Add(16 * time.Minute) }
	if _, err := svc.VerifyAccess(tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token got %v", err)
	}
}

func TestRotateReplacesToken(t *testing.T) {
	store := NewInMemoryCredentialStore()
	user := seedUser(store)
	svc := newTestService(store)

	first, err := svc.IssuePair(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	second, err := svc.Rotate(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("rotation must mint a new refresh token")
	}
	if got := store.StoredToken(user.ID); got != second.RefreshToken {
		t.Fatalf("store should hold the rotated token, got %q", got)
	}
}

func TestRotateRejectsReplay(t *testing.T) {
	store := NewInMemoryCredentialStore()
	user := seedUser(store)
	svc := newTestService(store)

	first, err := svc.IssuePair(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	if _, err := svc.Rotate(context.Background(), first.RefreshToken); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	// Presenting the consumed token again must fail and leave the stored
	// token untouched.
	current := store.StoredToken(user.ID)
	if _, err := svc.Rotate(context.Background(), first.RefreshToken); !errors.Is(err, ErrTokenReused) {
		t.Fatalf("expected ErrTokenReused got %v", err)
	}
	if got := store.StoredToken(user.ID); got != current {
		t.Fatal("replay attempt must not change the stored token")
	}
}

func TestRotateValidation(t *testing.T) {
	store := NewInMemoryCredentialStore()
	seedUser(store)
	svc := newTestService(store)

	if _, err := svc.Rotate(context.Background(), ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken got %v", err)
	}
	if _, err := svc.Rotate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken got %v", err)
	}
}

func TestRevokeInvalidatesRefresh(t *testing.T) {
	store := NewInMemoryCredentialStore()
	user := seedUser(store)
	svc := newTestService(store)

	tokens, err := svc.IssuePair(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	if err := svc.Revoke(context.Background(), user.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Rotate(context.Background(), tokens.RefreshToken); !errors.Is(err, ErrTokenReused) {
		t.Fatalf("expected ErrTokenReused after revoke got %v", err)
	}

	// Revoking twice is fine.
	if err := svc.Revoke(context.Background(), user.ID); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
}

func TestIssuePairSupersedesOldSession(t *testing.T) {
	store := NewInMemoryCredentialStore()
	user := seedUser(store)
	svc := newTestService(store)

	first, err := svc.IssuePair(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	if _, err := svc.IssuePair(context.Background(), user.ID); err != nil {
		t.Fatalf("second issue: %v", err)
	}

	if _, err := svc.Rotate(context.Background(), first.RefreshToken); !errors.Is(err, ErrTokenReused) {
		t.Fatalf("expected ErrTokenReused for superseded token got %v", err)
	}
}
