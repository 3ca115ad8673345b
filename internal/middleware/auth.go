package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/streamhub/backend/internal/auth"
	"github.com/streamhub/backend/internal/logging"
	"github.com/streamhub/backend/internal/models"
)

// AccessVerifier validates an access token without touching the store.
type AccessVerifier interface {
	VerifyAccess(token string) (auth.AccessClaims, error)
}

// UserResolver loads the user a verified token refers to.
type UserResolver interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

type userCtxKey struct{}

// UserFromContext returns the authenticated user attached by Authenticate.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(models.User)
	return user, ok
}

// WithUser attaches an authenticated user to the context. Exported so handler
// tests can simulate an authenticated request.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// Authenticate guards protected routes. It accepts the access token from the
// accessToken cookie or an Authorization bearer header, verifies it, resolves
// the embedded user id, and attaches the user (minus password and refresh
// token) to the request context. It performs no writes.
func Authenticate(verifier AccessVerifier, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := logging.FromContext(ctx)

			token := extractAccessToken(r)
			if token == "" {
				unauthorized(w, "Unauthorized request")
				return
			}

			claims, err := verifier.VerifyAccess(token)
			if err != nil {
				logger.Warn("access token rejected", "error", err)
				unauthorized(w, "Invalid access token")
				return
			}

			user, err := resolver.FindByID(ctx, claims.Subject)
			if err != nil {
				logger.Warn("token user no longer resolves", "userId", claims.Subject)
				unauthorized(w, "Invalid access token")
				return
			}

			user.Password = ""
			user.RefreshToken = ""

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

// AuthenticateOptional attaches the user when a valid access token is
// present but lets anonymous requests through. Public endpoints use it when
// the response varies with the viewer, such as the isSubscribed flag on a
// channel profile.
func AuthenticateOptional(verifier AccessVerifier, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := extractAccessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyAccess(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.FindByID(ctx, claims.Subject)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user.Password = ""
			user.RefreshToken = ""

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

func extractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":    false,
		"statusCode": http.StatusUnauthorized,
		"message":    message,
	})
}
