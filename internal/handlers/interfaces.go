package handlers

import (
	"context"

	"github.com/streamhub/backend/internal/graph"
	"github.com/streamhub/backend/internal/models"
	"github.com/streamhub/backend/internal/repositories"
	"github.com/streamhub/backend/internal/storage"
)

// UserStore captures the persistence operations required by the auth and
// account handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByLogin(ctx context.Context, identifier string) (models.User, error)
	UpdateDetails(ctx context.Context, id, fullName, email string) (models.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) (models.User, error)
	UpdateCoverImage(ctx context.Context, id, coverURL string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	PrependWatchHistory(ctx context.Context, id, videoID string, limit int) error
}

// TokenManager issues, rotates, and revokes the two-token session pair.
type TokenManager interface {
	IssuePair(ctx context.Context, userID string) (models.SessionTokens, error)
	Rotate(ctx context.Context, presented string) (models.SessionTokens, error)
	Revoke(ctx context.Context, userID string) error
}

// GraphService maintains subscription and like edges.
type GraphService interface {
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (graph.SubscriptionToggle, error)
	ToggleLike(ctx context.Context, likedBy string, kind models.LikeTarget, targetID string) (graph.LikeToggle, error)
	ListSubscribers(ctx context.Context, channelID string, limit, offset int) ([]models.PublicUser, error)
	ListSubscriptions(ctx context.Context, subscriberID string, limit, offset int) ([]models.PublicUser, error)
	ListLikedVideos(ctx context.Context, userID string, limit, offset int) ([]models.Video, error)
}

// ChannelStore answers derived channel queries.
type ChannelStore interface {
	Profile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	Stats(ctx context.Context, ownerID string) (models.ChannelStats, error)
	WatchHistory(ctx context.Context, userID string) ([]models.Video, error)
}

// VideoStore captures persistence for video workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	List(ctx context.Context, filter repositories.VideoListFilter) ([]models.Video, error)
	ListForOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Video, error)
	UpdateDetails(ctx context.Context, id, title, description, thumbnail string) (models.Video, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

// CommentStore captures persistence for comment workflows.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	ListForVideo(ctx context.Context, videoID string, limit, offset int) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (models.Comment, error)
	Delete(ctx context.Context, id string) error
}

// TweetStore captures persistence for tweet workflows.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListForUser(ctx context.Context, ownerID string, limit, offset int) ([]models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
}

// PlaylistStore captures persistence for playlist workflows.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListForUser(ctx context.Context, ownerID string) ([]models.Playlist, error)
	UpdateDetails(ctx context.Context, id, ownerID, name, description string) (models.Playlist, error)
	Delete(ctx context.Context, id, ownerID string) error
	AddVideo(ctx context.Context, playlistID, ownerID, videoID string) (bool, error)
	RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) (bool, error)
}

// MediaStore is the external object-store collaborator holding binary media.
type MediaStore interface {
	Upload(ctx context.Context, localPath string) (storage.Asset, error)
	Delete(ctx context.Context, publicID string) error
}
