package handlers

import (
	"net/http"

	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
)

// DashboardHandler serves the signed-in creator's channel overview.
type DashboardHandler struct {
	Channels     ChannelStore
	Videos       VideoStore
	MaxPageLimit int
}

// Stats handles GET /api/v1/dashboard/stats.
func (h DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	stats, err := h.Channels.Stats(ctx, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "User not found")
		return
	}

	respondData(ctx, w, http.StatusOK, stats, "Channel stats fetched successfully")
}

// ListVideos handles GET /api/v1/dashboard/videos, listing every video the
// signed-in user has uploaded including unpublished ones.
func (h DashboardHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	limit, offset := parsePagination(r, h.MaxPageLimit)
	videos, err := h.Videos.ListForOwner(ctx, user.ID, limit, offset)
	if err != nil {
		respondStoreError(ctx, w, err, "User not found")
		return
	}

	if videos == nil {
		videos = []models.Video{}
	}
	respondData(ctx, w, http.StatusOK, videos, "Channel videos fetched successfully")
}
