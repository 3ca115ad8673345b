package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
	"github.com/streamhub/backend/internal/repositories"
)

type fakeCommentStore struct {
	comments map[string]models.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[string]models.Comment)}
}

func (s *fakeCommentStore) Create(_ context.Context, comment models.Comment) error {
	s.comments[comment.ID] = comment
	return nil
}

func (s *fakeCommentStore) FindByID(_ context.Context, id string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *fakeCommentStore) ListForVideo(_ context.Context, videoID string, limit, offset int) ([]models.Comment, error) {
	var out []models.Comment
	for _, comment := range s.comments {
		if comment.VideoID == videoID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (s *fakeCommentStore) UpdateContent(_ context.Context, id, content string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	comment.Content = content
	s.comments[id] = comment
	return comment, nil
}

func (s *fakeCommentStore) Delete(_ context.Context, id string) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

type fakeVideoStore struct {
	videos map[string]models.Video
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{videos: make(map[string]models.Video)}
}

func (s *fakeVideoStore) Create(_ context.Context, video models.Video) error {
	s.videos[video.ID] = video
	return nil
}

func (s *fakeVideoStore) FindByID(_ context.Context, id string) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *fakeVideoStore) List(_ context.Context, filter repositories.VideoListFilter) ([]models.Video, error) {
	var out []models.Video
	for _, video := range s.videos {
		out = append(out, video)
	}
	return out, nil
}

func (s *fakeVideoStore) ListForOwner(_ context.Context, ownerID string, limit, offset int) ([]models.Video, error) {
	var out []models.Video
	for _, video := range s.videos {
		if video.OwnerID == ownerID {
			out = append(out, video)
		}
	}
	return out, nil
}

func (s *fakeVideoStore) UpdateDetails(_ context.Context, id, title, description, thumbnail string) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	video.Title = title
	video.Description = description
	video.Thumbnail = thumbnail
	s.videos[id] = video
	return video, nil
}

func (s *fakeVideoStore) Delete(_ context.Context, id string) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *fakeVideoStore) IncrementViews(_ context.Context, id string) error {
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	s.videos[id] = video
	return nil
}

const (
	commentVideoID = "7c21e8aa-9e6e-4d57-9631-000000000030"
	commentID      = "7c21e8aa-9e6e-4d57-9631-000000000031"
	otherUserID    = "7c21e8aa-9e6e-4d57-9631-000000000032"
)

func TestCommentHandlerCreate(t *testing.T) {
	comments := newFakeCommentStore()
	videos := newFakeVideoStore()
	videos.videos[commentVideoID] = models.Video{ID: commentVideoID}
	handler := CommentHandler{Comments: comments, Videos: videos}

	body, _ := json.Marshal(contentRequest{Content: "nice video"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/"+commentVideoID+"/comments", bytes.NewReader(body))
	req.SetPathValue("videoId", commentVideoID)
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID, Username: "alice"}))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data models.Comment `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Content != "nice video" || envelope.Data.OwnerID != viewerUserID {
		t.Fatalf("unexpected comment: %+v", envelope.Data)
	}
	if envelope.Data.Owner == nil || envelope.Data.Owner.Username != "alice" {
		t.Fatalf("expected embedded owner projection, got %+v", envelope.Data.Owner)
	}
}

func TestCommentHandlerCreateMissingVideo(t *testing.T) {
	handler := CommentHandler{Comments: newFakeCommentStore(), Videos: newFakeVideoStore()}

	body, _ := json.Marshal(contentRequest{Content: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/"+commentVideoID+"/comments", bytes.NewReader(body))
	req.SetPathValue("videoId", commentVideoID)
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestCommentHandlerCreateInvalidVideoID(t *testing.T) {
	handler := CommentHandler{Comments: newFakeCommentStore(), Videos: newFakeVideoStore()}

	body, _ := json.Marshal(contentRequest{Content: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/abc/comments", bytes.NewReader(body))
	req.SetPathValue("videoId", "abc")
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestCommentHandlerUpdateForbiddenForNonAuthor(t *testing.T) {
	comments := newFakeCommentStore()
	comments.comments[commentID] = models.Comment{ID: commentID, OwnerID: otherUserID, Content: "original"}
	handler := CommentHandler{Comments: comments, Videos: newFakeVideoStore()}

	body, _ := json.Marshal(contentRequest{Content: "hijacked"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/comments/"+commentID, bytes.NewReader(body))
	req.SetPathValue("commentId", commentID)
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
	if comments.comments[commentID].Content != "original" {
		t.Fatal("comment must not change on forbidden update")
	}
}

func TestCommentHandlerDelete(t *testing.T) {
	comments := newFakeCommentStore()
	comments.comments[commentID] = models.Comment{ID: commentID, OwnerID: viewerUserID}
	handler := CommentHandler{Comments: comments, Videos: newFakeVideoStore()}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/comments/"+commentID, nil)
	req.SetPathValue("commentId", commentID)
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if _, exists := comments.comments[commentID]; exists {
		t.Fatal("expected comment to be deleted")
	}
}

func TestCommentHandlerMalformedIDShortCircuits(t *testing.T) {
	handler := CommentHandler{Comments: newFakeCommentStore(), Videos: newFakeVideoStore()}

	for _, tc := range []struct {
		name   string
		method string
		call   func(http.ResponseWriter, *http.Request)
	}{
		{"update", http.MethodPatch, handler.Update},
		{"delete", http.MethodDelete, handler.Delete},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/v1/comments/not-a-uuid", nil)
			req.SetPathValue("commentId", "not-a-uuid")
			req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
			rec := httptest.NewRecorder()

			tc.call(rec, req)

			// An empty store would answer 404, so a 400 proves the id was
			// rejected before any lookup.
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
			}
		})
	}
}
