package repositories

import (
	"context"

	"github.com/streamhub/backend/internal/models"
)

// PlaylistRepository defines persistence for playlists. Mutations that take
// an ownerID are owner-scoped: they report ErrNotFound when the playlist does
// not exist or belongs to someone else, and never touch foreign playlists.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListForUser(ctx context.Context, ownerID string) ([]models.Playlist, error)
	UpdateDetails(ctx context.Context, id, ownerID, name, description string) (models.Playlist, error)
	Delete(ctx context.Context, id, ownerID string) error

	// AddVideo inserts the video into the set, reporting false when it was
	// already present.
	AddVideo(ctx context.Context, playlistID, ownerID, videoID string) (bool, error)
	// RemoveVideo deletes the video from the set, reporting false when it
	// was not a member.
	RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) (bool, error)
}
