package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/models"
)

var (
	// ErrMissingToken indicates no refresh token was presented.
	ErrMissingToken = errors.New("refresh token required")
	// ErrInvalidToken indicates the token failed signature or expiry checks,
	// or references a user that no longer exists.
	ErrInvalidToken = errors.New("invalid refresh token")
	// ErrTokenReused indicates the presented token no longer matches the
	// stored one: it was already rotated or revoked.
	ErrTokenReused = errors.New("refresh token is expired or used")
)

// CredentialStore is the slice of user persistence the token service needs.
type CredentialStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	RotateRefreshToken(ctx context.Context, id, presented, next string) (bool, error)
	ClearRefreshToken(ctx context.Context, id string) error
}

// AccessClaims are embedded in access tokens so protected handlers can
// resolve the caller without a store lookup.
type AccessClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	jwt.RegisteredClaims
}

// TokenService issues, verifies, and rotates the two-token session pair.
// Access tokens are stateless and self-verifying; the refresh token's current
// value is mirrored on the user record, which makes it the one revocable
// piece of session state.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	store CredentialStore

	// NowFunc overrides the clock in tests.
	NowFunc func() time.Time
}

// NewTokenService constructs a TokenService. The two secrets must differ so a
// refresh token can never pass as an access token.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, store CredentialStore) *TokenService {
	if store == nil {
		panic("auth: credential store must not be nil")
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		store:         store,
	}
}

// IssuePair mints a fresh access/refresh pair for the user and persists the
// refresh token, overwriting any prior value. A new login therefore
// invalidates every previously issued refresh token for that user.
func (s *TokenService) IssuePair(ctx context.Context, userID string) (models.SessionTokens, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return models.SessionTokens{}, fmt.Errorf("load user for token issue: %w", err)
	}

	tokens, err := s.mintPair(user)
	if err != nil {
		return models.SessionTokens{}, err
	}

	if err := s.store.SetRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return models.SessionTokens{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return tokens, nil
}

// Rotate exchanges a presented refresh token for a new pair. The store swap
// is conditional on the stored value still matching the presented token, so
// of two concurrent rotations with the same token exactly one succeeds; the
// other observes the already-changed value and fails with ErrTokenReused.
func (s *TokenService) Rotate(ctx context.Context, presented string) (models.SessionTokens, error) {
	if presented == "" {
		return models.SessionTokens{}, ErrMissingToken
	}

	userID, err := s.verifyRefresh(presented)
	if err != nil {
		return models.SessionTokens{}, err
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return models.SessionTokens{}, ErrInvalidToken
	}

	if user.RefreshToken != presented {
		return models.SessionTokens{}, ErrTokenReused
	}

	tokens, err := s.mintPair(user)
	if err != nil {
		return models.SessionTokens{}, err
	}

	swapped, err := s.store.RotateRefreshToken(ctx, user.ID, presented, tokens.RefreshToken)
	if err != nil {
		return models.SessionTokens{}, fmt.Errorf("rotate refresh token: %w", err)
	}
	if !swapped {
		return models.SessionTokens{}, ErrTokenReused
	}

	return tokens, nil
}

// Revoke clears the user's stored refresh token. Idempotent: revoking an
// already-revoked session succeeds.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	if err := s.store.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// VerifyAccess validates an access token's signature and expiry and returns
// its claims. No store lookup happens here.
func (s *TokenService) VerifyAccess(tokenString string) (AccessClaims, error) {
	var claims AccessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.accessSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return AccessClaims{}, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) verifyRefresh(tokenString string) (string, error) {
	var claims refreshClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.refreshSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *TokenService) mintPair(user models.User) (models.SessionTokens, error) {
	now := s.now()
	accessExpiry := now.Add(s.accessTTL)
	refreshExpiry := now.Add(s.refreshTTL)

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExpiry),
		},
	})
	accessToken, err := access.SignedString(s.accessSecret)
	if err != nil {
		return models.SessionTokens{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			// The token id makes every minted refresh token unique, so a
			// rotation always changes the stored value even within the same
			// second. Without it the equality check could not tell a rotated
			// token from a replayed one.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExpiry),
		},
	})
	refreshToken, err := refresh.SignedString(s.refreshSecret)
	if err != nil {
		return models.SessionTokens{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return models.SessionTokens{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

func (s *TokenService) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}
