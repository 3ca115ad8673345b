package models

import "time"

// User represents an account within the StreamHub platform. A user doubles as
// a channel: other users subscribe to it and its uploads hang off it.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Password     string    `json:"-"`
	Avatar       string    `json:"avatar,omitempty"`
	CoverImage   string    `json:"coverImage,omitempty"`
	RefreshToken string    `json:"-"`
	WatchHistory []string  `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the projection of a user safe to embed in listings.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar,omitempty"`
}

// Public strips a user down to its listing projection.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// Video is an uploaded video together with its externally stored assets.
type Video struct {
	ID              string      `json:"id"`
	OwnerID         string      `json:"ownerId"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	VideoFile       string      `json:"videoFile"`
	Thumbnail       string      `json:"thumbnail"`
	DurationSeconds float64     `json:"durationSeconds"`
	Views           int64       `json:"views"`
	Published       bool        `json:"published"`
	CreatedAt       time.Time   `json:"createdAt"`
	Owner           *PublicUser `json:"owner,omitempty"`
}

// Tweet is a short text update posted by a user.
type Tweet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment belongs to a video and is written by a user.
type Comment struct {
	ID        string      `json:"id"`
	VideoID   string      `json:"videoId"`
	OwnerID   string      `json:"ownerId"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Owner     *PublicUser `json:"owner,omitempty"`
}

// Subscription is a directed edge from a subscriber to a channel.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriberId"`
	ChannelID    string    `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LikeTarget tags the kind of entity a like points at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Valid reports whether the target kind is one of the known variants.
func (t LikeTarget) Valid() bool {
	switch t {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

// Like is an edge from a user to exactly one video, comment, or tweet.
// At most one like exists per (likedBy, targetKind, targetId).
type Like struct {
	ID         string     `json:"id"`
	LikedBy    string     `json:"likedBy"`
	TargetKind LikeTarget `json:"targetKind"`
	TargetID   string     `json:"targetId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Playlist is an owned, deduplicated collection of videos.
type Playlist struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	VideoIDs    []string  `json:"videoIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ChannelProfile is the aggregated public view of a user's channel.
type ChannelProfile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar,omitempty"`
	CoverImage        string `json:"coverImage,omitempty"`
	SubscribersCount  int64  `json:"subscribersCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// ChannelStats summarises a channel for its owner's dashboard.
type ChannelStats struct {
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalVideos      int64 `json:"totalVideos"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalViews       int64 `json:"totalViews"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
