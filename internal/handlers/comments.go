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

// CommentHandler implements the per-video comment endpoints.
type CommentHandler struct {
	Comments     CommentStore
	Videos       VideoStore
	MaxPageLimit int
	NowFunc      func() time.Time
}

// ListForVideo handles GET /api/v1/videos/{videoId}/comments.
func (h CommentHandler) ListForVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID := r.PathValue("videoId")
	if uuid.Validate(videoID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video id")
		return
	}

	limit, offset := parsePagination(r, h.MaxPageLimit)
	comments, err := h.Comments.ListForVideo(ctx, videoID, limit, offset)
	if err != nil {
		respondStoreError(ctx, w, err, "Video does not exist")
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	respondData(ctx, w, http.StatusOK, comments, "Comments fetched successfully")
}

// Create handles POST /api/v1/videos/{videoId}/comments.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

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

	// Reject comments on missing videos up front so the FK violation never
	// surfaces as a 500.
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondStoreError(ctx, w, err, "Video does not exist")
		return
	}

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		OwnerID:   user.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		logging.FromContext(ctx).Error("create comment", "error", err, "videoId", videoID)
		respondStoreError(ctx, w, err, "Video does not exist")
		return
	}

	owner := user.Public()
	comment.Owner = &owner
	respondData(ctx, w, http.StatusCreated, comment, "Comment added successfully")
}

// Update handles PATCH /api/v1/comments/{commentId}. Only the author may
// edit a comment.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	commentID := r.PathValue("commentId")
	if uuid.Validate(commentID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		respondStoreError(ctx, w, err, "Comment does not exist")
		return
	}
	if comment.OwnerID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "Only the author can edit this comment")
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

	updated, err := h.Comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		respondStoreError(ctx, w, err, "Comment does not exist")
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "Comment updated successfully")
}

// Delete handles DELETE /api/v1/comments/{commentId}. The author of the
// comment may delete it.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	commentID := r.PathValue("commentId")
	if uuid.Validate(commentID) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		respondStoreError(ctx, w, err, "Comment does not exist")
		return
	}
	if comment.OwnerID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "Only the author can delete this comment")
		return
	}

	if err := h.Comments.Delete(ctx, commentID); err != nil {
		respondStoreError(ctx, w, err, "Comment does not exist")
		return
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "Comment deleted successfully")
}

type contentRequest struct {
	Content string `json:"content"`
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
