package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/logging"
	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
)

// TweetHandler implements the short text update endpoints.
type TweetHandler struct {
	Tweets       TweetStore
	MaxPageLimit int
	NowFunc      func() time.Time
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	now := h.now()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   user.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		logging.FromContext(ctx).Error("create tweet", "error", err, "ownerId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "Something went wrong while creating the tweet")
		return
	}

	respondData(ctx, w, http.StatusCreated, tweet, "Tweet created successfully")
}

// ListForUser handles GET /api/v1/users/{userId}/tweets, newest first.
func (h TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("userId")
	if uuid.Validate(userID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid user id")
		return
	}

	limit, offset := parsePagination(r, h.MaxPageLimit)
	tweets, err := h.Tweets.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		respondStoreError(ctx, w, err, "User not found")
		return
	}

	if tweets == nil {
		tweets = []models.Tweet{}
	}
	respondData(ctx, w, http.StatusOK, tweets, "Tweets fetched successfully")
}

// Update handles PATCH /api/v1/tweets/{tweetId}. Only the author may edit.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	tweetID := r.PathValue("tweetId")
	if uuid.Validate(tweetID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid tweet id")
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		respondStoreError(ctx, w, err, "Tweet does not exist")
		return
	}
	if tweet.OwnerID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "Only the author can edit this tweet")
		return
	}

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	updated, err := h.Tweets.UpdateContent(ctx, tweetID, content)
	if err != nil {
		respondStoreError(ctx, w, err, "Tweet does not exist")
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "Tweet updated successfully")
}

// Delete handles DELETE /api/v1/tweets/{tweetId}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	tweetID := r.PathValue("tweetId")
	if uuid.Validate(tweetID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid tweet id")
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		respondStoreError(ctx, w, err, "Tweet does not exist")
		return
	}
	if tweet.OwnerID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "Only the author can delete this tweet")
		return
	}

	if err := h.Tweets.Delete(ctx, tweetID); err != nil {
		respondStoreError(ctx, w, err, "Tweet does not exist")
		return
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "Tweet deleted successfully")
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
