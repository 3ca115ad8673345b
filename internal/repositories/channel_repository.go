package repositories

import (
	"context"

	"github.com/streamhub/backend/internal/models"
)

// ChannelRepository answers the derived, read-only channel queries that join
// users against their subscription, video, and like edge sets. Each query is
// a single statement so the counts and flags it returns come from one
// consistent snapshot.
type ChannelRepository interface {
	// Profile resolves a channel by case-normalized username and reports its
	// subscriber counts plus whether viewerID currently subscribes to it.
	Profile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	// Stats summarises the channel owned by ownerID. A channel with no
	// videos reports zero totals rather than an error.
	Stats(ctx context.Context, ownerID string) (models.ChannelStats, error)
	// WatchHistory returns the user's watched videos in exactly the stored
	// order, each carrying a single owner projection.
	WatchHistory(ctx context.Context, userID string) ([]models.Video, error)
}
