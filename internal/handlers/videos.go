package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/logging"
	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
	"github.com/streamhub/backend/internal/repositories"
	"github.com/streamhub/backend/internal/storage"
)

// VideoHandler implements the video publishing and browsing endpoints.
type VideoHandler struct {
	Videos       VideoStore
	Users        UserStore
	Media        MediaStore
	MaxPageLimit int
	HistoryLimit int
	NowFunc      func() time.Time
}

// List handles GET /api/v1/videos. Supports query, owner, sortBy, sortOrder,
// page, and limit query parameters.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset := parsePagination(r, h.MaxPageLimit)
	filter := repositories.VideoListFilter{
		TitleQuery: strings.TrimSpace(r.URL.Query().Get("query")),
		OwnerID:    strings.TrimSpace(r.URL.Query().Get("owner")),
		SortBy:     strings.TrimSpace(r.URL.Query().Get("sortBy")),
		Ascending:  strings.EqualFold(r.URL.Query().Get("sortOrder"), "asc"),
		Limit:      limit,
		Offset:     offset,
	}

	videos, err := h.Videos.List(ctx, filter)
	if err != nil {
		respondStoreError(ctx, w, err, "Videos not found")
		return
	}

	if videos == nil {
		videos = []models.Video{}
	}
	respondData(ctx, w, http.StatusOK, videos, "Videos fetched successfully")
}

// Publish handles POST /api/v1/videos. The request is multipart with a
// videoFile and thumbnail alongside title and description fields.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	if err := r.ParseMultipartForm(512 << 20); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid multipart request body")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" {
		respondError(ctx, w, http.StatusBadRequest, "title is required")
		return
	}

	uploadCtx, span := logging.StartSpan(ctx, "video.upload")
	videoAsset, ok := h.uploadField(w, r.WithContext(uploadCtx), "videoFile")
	if !ok {
		return
	}
	thumbAsset, ok := h.uploadField(w, r.WithContext(uploadCtx), "thumbnail")
	if !ok {
		return
	}
	span.End()

	video := models.Video{
		ID:              uuid.NewString(),
		OwnerID:         user.ID,
		Title:           title,
		Description:     description,
		VideoFile:       videoAsset.URL,
		Thumbnail:       thumbAsset.URL,
		DurationSeconds: videoAsset.DurationSeconds,
		Published:       true,
		CreatedAt:       h.now(),
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		logger.Error("create video", "error", err, "ownerId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "Something went wrong while publishing the video")
		return
	}

	owner := user.Public()
	video.Owner = &owner
	respondData(ctx, w, http.StatusCreated, video, "Video published successfully")
}

// Get handles GET /api/v1/videos/{videoId}. Fetching a video counts a view
// and, for signed-in users, records it in their watch history.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	videoID := r.PathValue("videoId")
	if uuid.Validate(videoID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video id")
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondStoreError(ctx, w, err, "Video does not exist")
		return
	}

	if err := h.Videos.IncrementViews(ctx, videoID); err != nil {
		logger.Warn("increment views", "error", err, "videoId", videoID)
	} else {
		video.Views++
	}

	if viewer, ok := middleware.UserFromContext(ctx); ok {
		if err := h.Users.PrependWatchHistory(ctx, viewer.ID, videoID, h.HistoryLimit); err != nil {
			logger.Warn("record watch history", "error", err, "userId", viewer.ID)
		}
	}

	respondData(ctx, w, http.StatusOK, video, "Video fetched successfully")
}

// Update handles PATCH /api/v1/videos/{videoId}. Only the owner may update
// a video. An optional replacement thumbnail may be sent as multipart.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	videoID := r.PathValue("videoId")
	if uuid.Validate(videoID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video id")
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondStoreError(ctx, w, err, "Video does not exist")
		return
	}
	if video.OwnerID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "Only the owner can update this video")
		return
	}

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid multipart request body")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" {
		title = video.Title
	}
	if description == "" {
		description = video.Description
	}

	thumbnail := video.Thumbnail
	if file, header, err := r.FormFile("thumbnail"); err == nil {
		asset, uploadErr := h.uploadFile(ctx, file, header)
		file.Close()
		if uploadErr != nil {
			logger.Error("upload thumbnail", "error", uploadErr)
			respondError(ctx, w, http.StatusInternalServerError, "Error while uploading thumbnail")
			return
		}
		if video.Thumbnail != "" {
			if err := h.Media.Delete(ctx, storage.PublicIDFromURL(video.Thumbnail)); err != nil {
				logger.Warn("delete old thumbnail", "error", err)
			}
		}
		thumbnail = asset.URL
	}

	updated, err := h.Videos.UpdateDetails(ctx, videoID, title, description, thumbnail)
	if err != nil {
		respondStoreError(ctx, w, err, "Video does not exist")
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "Video updated successfully")
}

// Delete handles DELETE /api/v1/videos/{videoId}. Only the owner may delete
// a video. Its stored media assets are removed best effort.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	videoID := r.PathValue("videoId")
	if uuid.Validate(videoID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video id")
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondStoreError(ctx, w, err, "Video does not exist")
		return
	}
	if video.OwnerID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "Only the owner can delete this video")
		return
	}

	if err := h.Videos.Delete(ctx, videoID); err != nil {
		respondStoreError(ctx, w, err, "Video does not exist")
		return
	}

	for _, url := range []string{video.VideoFile, video.Thumbnail} {
		if url == "" {
			continue
		}
		if err := h.Media.Delete(ctx, storage.PublicIDFromURL(url)); err != nil {
			logger.Warn("delete media asset", "error", err, "url", url)
		}
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "Video deleted successfully")
}

func (h VideoHandler) uploadField(w http.ResponseWriter, r *http.Request, field string) (storage.Asset, bool) {
	ctx := r.Context()

	file, header, err := r.FormFile(field)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, field+" file is required")
		return storage.Asset{}, false
	}
	defer file.Close()

	asset, err := h.uploadFile(ctx, file, header)
	if err != nil {
		logging.FromContext(ctx).Error("upload media", "error", err, "field", field)
		respondError(ctx, w, http.StatusInternalServerError, "Error while uploading "+field)
		return storage.Asset{}, false
	}
	return asset, true
}

func (h VideoHandler) uploadFile(ctx context.Context, file multipart.File, header *multipart.FileHeader) (storage.Asset, error) {
	localPath, err := spoolToTemp(file, header)
	if err != nil {
		return storage.Asset{}, err
	}
	defer os.Remove(localPath)

	return h.Media.Upload(ctx, localPath)
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
