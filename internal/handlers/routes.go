package handlers

import (
	"net/http"
	"time"

	"github.com/streamhub/backend/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users     UserStore
	Tokens    TokenManager
	Verifier  middleware.AccessVerifier
	Graph     GraphService
	Channels  ChannelStore
	Videos    VideoStore
	Comments  CommentStore
	Tweets    TweetStore
	Playlists PlaylistStore
	Media     MediaStore

	LoginLimiter RateLimiter

	SecureCookies bool
	MaxPageLimit  int
	HistoryLimit  int
	NowFunc       func() time.Time
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	authH := AuthHandler{
		Users:         deps.Users,
		Tokens:        deps.Tokens,
		Media:         deps.Media,
		Limiter:       deps.LoginLimiter,
		SecureCookies: deps.SecureCookies,
		NowFunc:       deps.NowFunc,
	}
	channels := ChannelHandler{Channels: deps.Channels, Graph: deps.Graph, MaxPageLimit: deps.MaxPageLimit}
	likes := LikeHandler{Graph: deps.Graph, MaxPageLimit: deps.MaxPageLimit}
	videos := VideoHandler{
		Videos:       deps.Videos,
		Users:        deps.Users,
		Media:        deps.Media,
		MaxPageLimit: deps.MaxPageLimit,
		HistoryLimit: deps.HistoryLimit,
		NowFunc:      deps.NowFunc,
	}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos, MaxPageLimit: deps.MaxPageLimit, NowFunc: deps.NowFunc}
	tweets := TweetHandler{Tweets: deps.Tweets, MaxPageLimit: deps.MaxPageLimit, NowFunc: deps.NowFunc}
	playlists := PlaylistHandler{Playlists: deps.Playlists, NowFunc: deps.NowFunc}
	dashboard := DashboardHandler{Channels: deps.Channels, Videos: deps.Videos, MaxPageLimit: deps.MaxPageLimit}

	guard := middleware.Authenticate(deps.Verifier, deps.Users)
	viewer := middleware.AuthenticateOptional(deps.Verifier, deps.Users)

	protected := func(h http.HandlerFunc) http.Handler { return guard(h) }
	public := func(h http.HandlerFunc) http.Handler { return viewer(h) }

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/auth/register", authH.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authH.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authH.Refresh)
	mux.Handle("POST /api/v1/auth/logout", protected(authH.Logout))
	mux.Handle("POST /api/v1/auth/change-password", protected(authH.ChangePassword))

	mux.Handle("GET /api/v1/users/me", protected(authH.CurrentUser))
	mux.Handle("PATCH /api/v1/users/me", protected(authH.UpdateAccount))
	mux.Handle("PATCH /api/v1/users/me/avatar", protected(authH.UpdateAvatar))
	mux.Handle("PATCH /api/v1/users/me/cover", protected(authH.UpdateCoverImage))
	mux.Handle("GET /api/v1/users/me/history", protected(channels.WatchHistory))
	mux.Handle("GET /api/v1/users/{userId}/tweets", public(tweets.ListForUser))
	mux.Handle("GET /api/v1/users/{userId}/playlists", public(playlists.ListForUser))

	mux.Handle("GET /api/v1/channels/{username}", public(channels.Profile))
	mux.Handle("POST /api/v1/channels/{channelId}/subscription", protected(channels.ToggleSubscription))
	mux.Handle("GET /api/v1/channels/{channelId}/subscribers", public(channels.Subscribers))
	mux.Handle("GET /api/v1/channels/{channelId}/subscriptions", public(channels.Subscriptions))

	mux.Handle("GET /api/v1/videos", public(videos.List))
	mux.Handle("POST /api/v1/videos", protected(videos.Publish))
	mux.Handle("GET /api/v1/videos/{videoId}", public(videos.Get))
	mux.Handle("PATCH /api/v1/videos/{videoId}", protected(videos.Update))
	mux.Handle("DELETE /api/v1/videos/{videoId}", protected(videos.Delete))

	mux.Handle("GET /api/v1/videos/{videoId}/comments", public(comments.ListForVideo))
	mux.Handle("POST /api/v1/videos/{videoId}/comments", protected(comments.Create))
	mux.Handle("PATCH /api/v1/comments/{commentId}", protected(comments.Update))
	mux.Handle("DELETE /api/v1/comments/{commentId}", protected(comments.Delete))

	mux.Handle("POST /api/v1/tweets", protected(tweets.Create))
	mux.Handle("PATCH /api/v1/tweets/{tweetId}", protected(tweets.Update))
	mux.Handle("DELETE /api/v1/tweets/{tweetId}", protected(tweets.Delete))

	mux.Handle("POST /api/v1/likes/videos/{videoId}", protected(likes.ToggleVideo))
	mux.Handle("POST /api/v1/likes/comments/{commentId}", protected(likes.ToggleComment))
	mux.Handle("POST /api/v1/likes/tweets/{tweetId}", protected(likes.ToggleTweet))
	mux.Handle("GET /api/v1/likes/videos", protected(likes.LikedVideos))

	mux.Handle("POST /api/v1/playlists", protected(playlists.Create))
	mux.Handle("GET /api/v1/playlists/{playlistId}", public(playlists.Get))
	mux.Handle("PATCH /api/v1/playlists/{playlistId}", protected(playlists.Update))
	mux.Handle("DELETE /api/v1/playlists/{playlistId}", protected(playlists.Delete))
	mux.Handle("POST /api/v1/playlists/{playlistId}/videos/{videoId}", protected(playlists.AddVideo))
	mux.Handle("DELETE /api/v1/playlists/{playlistId}/videos/{videoId}", protected(playlists.RemoveVideo))

	mux.Handle("GET /api/v1/dashboard/stats", protected(dashboard.Stats))
	mux.Handle("GET /api/v1/dashboard/videos", protected(dashboard.ListVideos))
}
