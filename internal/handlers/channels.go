package handlers

import (
	"net/http"
	"strings"

	"github.com/streamhub/backend/internal/graph"
	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
)

// ChannelHandler serves channel profiles, subscription toggles, and the
// follower and watch history listings.
type ChannelHandler struct {
	Channels     ChannelStore
	Graph        GraphService
	MaxPageLimit int
}

// Profile handles GET /api/v1/channels/{username}. The viewer may be
// anonymous, in which case isSubscribed is always false.
func (h ChannelHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := strings.TrimSpace(strings.ToLower(r.PathValue("username")))
	if username == "" {
		respondError(ctx, w, http.StatusBadRequest, "username is required")
		return
	}

	viewerID := ""
	if viewer, ok := middleware.UserFromContext(ctx); ok {
		viewerID = viewer.ID
	}

	profile, err := h.Channels.Profile(ctx, username, viewerID)
	if err != nil {
		respondStoreError(ctx, w, err, "Channel does not exist")
		return
	}

	respondData(ctx, w, http.StatusOK, profile, "Channel profile fetched successfully")
}

// ToggleSubscription handles POST /api/v1/channels/{channelId}/subscription.
func (h ChannelHandler) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	toggle, err := h.Graph.ToggleSubscription(ctx, user.ID, r.PathValue("channelId"))
	if err != nil {
		respondStoreError(ctx, w, err, "Channel does not exist")
		return
	}

	message := "Subscribed successfully"
	if toggle.State == graph.StateUnsubscribed {
		message = "Unsubscribed successfully"
	}
	respondData(ctx, w, http.StatusOK, toggle, message)
}

// Subscribers handles GET /api/v1/channels/{channelId}/subscribers.
func (h ChannelHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset := parsePagination(r, h.MaxPageLimit)
	users, err := h.Graph.ListSubscribers(ctx, r.PathValue("channelId"), limit, offset)
	if err != nil {
		respondStoreError(ctx, w, err, "Channel does not exist")
		return
	}

	if users == nil {
		users = []models.PublicUser{}
	}
	respondData(ctx, w, http.StatusOK, users, "Subscribers fetched successfully")
}

// Subscriptions handles GET /api/v1/channels/{channelId}/subscriptions,
// listing the channels the given user follows.
func (h ChannelHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset := parsePagination(r, h.MaxPageLimit)
	users, err := h.Graph.ListSubscriptions(ctx, r.PathValue("channelId"), limit, offset)
	if err != nil {
		respondStoreError(ctx, w, err, "Channel does not exist")
		return
	}

	if users == nil {
		users = []models.PublicUser{}
	}
	respondData(ctx, w, http.StatusOK, users, "Subscribed channels fetched successfully")
}

// WatchHistory handles GET /api/v1/users/me/history. Videos come back in
// most recently watched order with their owner embedded.
func (h ChannelHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	videos, err := h.Channels.WatchHistory(ctx, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "User not found")
		return
	}

	if videos == nil {
		videos = []models.Video{}
	}
	respondData(ctx, w, http.StatusOK, videos, "Watch history fetched successfully")
}
