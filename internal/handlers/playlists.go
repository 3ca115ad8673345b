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

// PlaylistHandler implements the playlist collection endpoints. All
// mutations are owner scoped at the store level.
type PlaylistHandler struct {
	Playlists PlaylistStore
	NowFunc   func() time.Time
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(ctx, w, http.StatusBadRequest, "name is required")
		return
	}

	now := h.now()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     user.ID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		VideoIDs:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		logging.FromContext(ctx).Error("create playlist", "error", err, "ownerId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "Something went wrong while creating the playlist")
		return
	}

	respondData(ctx, w, http.StatusCreated, playlist, "Playlist created successfully")
}

// Get handles GET /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlistID := r.PathValue("playlistId")
	if uuid.Validate(playlistID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		respondStoreError(ctx, w, err, "Playlist does not exist")
		return
	}

	respondData(ctx, w, http.StatusOK, playlist, "Playlist fetched successfully")
}

// ListForUser handles GET /api/v1/users/{userId}/playlists.
func (h PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("userId")
	if uuid.Validate(userID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid user id")
		return
	}

	playlists, err := h.Playlists.ListForUser(ctx, userID)
	if err != nil {
		respondStoreError(ctx, w, err, "User not found")
		return
	}

	if playlists == nil {
		playlists = []models.Playlist{}
	}
	respondData(ctx, w, http.StatusOK, playlists, "Playlists fetched successfully")
}

// Update handles PATCH /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	playlistID := r.PathValue("playlistId")
	if uuid.Validate(playlistID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(ctx, w, http.StatusBadRequest, "name is required")
		return
	}

	updated, err := h.Playlists.UpdateDetails(ctx, playlistID, user.ID, name, strings.TrimSpace(req.Description))
	if err != nil {
		respondStoreError(ctx, w, err, "Playlist does not exist")
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "Playlist updated successfully")
}

// Delete handles DELETE /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	playlistID := r.PathValue("playlistId")
	if uuid.Validate(playlistID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	if err := h.Playlists.Delete(ctx, playlistID, user.ID); err != nil {
		respondStoreError(ctx, w, err, "Playlist does not exist")
		return
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "Playlist deleted successfully")
}

// AddVideo handles POST /api/v1/playlists/{playlistId}/videos/{videoId}.
// Adding a video twice is a no-op.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	playlistID := r.PathValue("playlistId")
	videoID := r.PathValue("videoId")
	if uuid.Validate(playlistID) != nil || uuid.Validate(videoID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid id")
		return
	}

	added, err := h.Playlists.AddVideo(ctx, playlistID, user.ID, videoID)
	if err != nil {
		respondStoreError(ctx, w, err, "Playlist does not exist")
		return
	}

	message := "Video added to playlist"
	if !added {
		message = "Video already in playlist"
	}
	respondData(ctx, w, http.StatusOK, map[string]bool{"added": added}, message)
}

// RemoveVideo handles DELETE /api/v1/playlists/{playlistId}/videos/{videoId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	playlistID := r.PathValue("playlistId")
	videoID := r.PathValue("videoId")
	if uuid.Validate(playlistID) != nil || uuid.Validate(videoID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid id")
		return
	}

	removed, err := h.Playlists.RemoveVideo(ctx, playlistID, user.ID, videoID)
	if err != nil {
		respondStoreError(ctx, w, err, "Playlist does not exist")
		return
	}

	message := "Video removed from playlist"
	if !removed {
		message = "Video was not in playlist"
	}
	respondData(ctx, w, http.StatusOK, map[string]bool{"removed": removed}, message)
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
