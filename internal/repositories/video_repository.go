package repositories

import (
	"context"

	"github.com/streamhub/backend/internal/models"
)

// VideoListFilter narrows and orders a video listing.
type VideoListFilter struct {
	// TitleQuery filters to titles containing the string, case-insensitive.
	TitleQuery string
	// OwnerID filters to a single uploader when set.
	OwnerID string
	// SortBy is one of "createdAt", "views", "title". Defaults to createdAt.
	SortBy string
	// Ascending flips the sort direction; listings default to descending.
	Ascending bool
	Limit     int
	Offset    int
}

// VideoRepository defines persistence for uploaded videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	List(ctx context.Context, filter VideoListFilter) ([]models.Video, error)
	// ListForOwner returns the owner's uploads newest first.
	ListForOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Video, error)
	UpdateDetails(ctx context.Context, id, title, description, thumbnail string) (models.Video, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

// CommentRepository defines persistence for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	// ListForVideo returns comments newest first with the owner's username
	// and avatar joined in. Password and token fields never leave the store.
	ListForVideo(ctx context.Context, videoID string, limit, offset int) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (models.Comment, error)
	Delete(ctx context.Context, id string) error
}

// TweetRepository defines persistence for short text updates.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListForUser(ctx context.Context, ownerID string, limit, offset int) ([]models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
}
