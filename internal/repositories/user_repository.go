package repositories

import (
	"context"

	"github.com/streamhub/backend/internal/models"
)

// UserRepository defines the data access contract for user accounts. It is
// also the credential store: the current refresh token for each user lives on
// the user record itself, so revocation and rotation are single-field writes.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	// FindByLogin matches the identifier against either username or email.
	FindByLogin(ctx context.Context, identifier string) (models.User, error)

	UpdateDetails(ctx context.Context, id, fullName, email string) (models.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) (models.User, error)
	UpdateCoverImage(ctx context.Context, id, coverURL string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetRefreshToken unconditionally replaces the stored refresh token,
	// invalidating any previously issued one.
	SetRefreshToken(ctx context.Context, id, token string) error
	// RotateRefreshToken swaps the stored token for next only if the stored
	// value still equals presented. It reports false when another rotation
	// won the race or the token was already cleared.
	RotateRefreshToken(ctx context.Context, id, presented, next string) (bool, error)
	// ClearRefreshToken removes the stored token. Idempotent.
	ClearRefreshToken(ctx context.Context, id string) error

	// PrependWatchHistory records a view event at the front of the user's
	// watch history, trimming the sequence to at most limit entries.
	PrependWatchHistory(ctx context.Context, id, videoID string, limit int) error
}
