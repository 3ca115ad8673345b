package handlers

import (
	"net/http"

	"github.com/streamhub/backend/internal/graph"
	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
)

// LikeHandler toggles likes on videos, comments, and tweets, and lists a
// user's liked videos.
type LikeHandler struct {
	Graph        GraphService
	MaxPageLimit int
}

// ToggleVideo handles POST /api/v1/likes/videos/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, r.PathValue("videoId"),
		"Video liked successfully", "Video unliked successfully")
}

// ToggleComment handles POST /api/v1/likes/comments/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, r.PathValue("commentId"),
		"Comment liked successfully", "Comment unliked successfully")
}

// ToggleTweet handles POST /api/v1/likes/tweets/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, r.PathValue("tweetId"),
		"Tweet liked successfully", "Tweet unliked successfully")
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	limit, offset := parsePagination(r, h.MaxPageLimit)
	videos, err := h.Graph.ListLikedVideos(ctx, user.ID, limit, offset)
	if err != nil {
		respondStoreError(ctx, w, err, "User not found")
		return
	}

	if videos == nil {
		videos = []models.Video{}
	}
	respondData(ctx, w, http.StatusOK, videos, "Liked videos fetched successfully")
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, kind models.LikeTarget, targetID, likedMsg, unlikedMsg string) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	result, err := h.Graph.ToggleLike(ctx, user.ID, kind, targetID)
	if err != nil {
		respondStoreError(ctx, w, err, "Target does not exist")
		return
	}

	message := likedMsg
	if result.State == graph.StateUnliked {
		message = unlikedMsg
	}
	respondData(ctx, w, http.StatusOK, result, message)
}
