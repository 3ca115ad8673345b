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

type fakePlaylistStore struct {
	playlists map[string]models.Playlist
}

func newFakePlaylistStore() *fakePlaylistStore {
	return &fakePlaylistStore{playlists: make(map[string]models.Playlist)}
}

func (s *fakePlaylistStore) Create(_ context.Context, playlist models.Playlist) error {
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *fakePlaylistStore) FindByID(_ context.Context, id string) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s *fakePlaylistStore) ListForUser(_ context.Context, ownerID string) ([]models.Playlist, error) {
	var out []models.Playlist
	for _, playlist := range s.playlists {
		if playlist.OwnerID == ownerID {
			out = append(out, playlist)
		}
	}
	return out, nil
}

func (s *fakePlaylistStore) UpdateDetails(_ context.Context, id, ownerID, name, description string) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok || playlist.OwnerID != ownerID {
		return models.Playlist{}, repositories.ErrNotFound
	}
	playlist.Name = name
	playlist.Description = description
	s.playlists[id] = playlist
	return playlist, nil
}

func (s *fakePlaylistStore) Delete(_ context.Context, id, ownerID string) error {
	playlist, ok := s.playlists[id]
	if !ok || playlist.OwnerID != ownerID {
		return repositories.ErrNotFound
	}
	delete(s.playlists, id)
	return nil
}

func (s *fakePlaylistStore) AddVideo(_ context.Context, playlistID, ownerID, videoID string) (bool, error) {
	playlist, ok := s.playlists[playlistID]
	if !ok || playlist.OwnerID != ownerID {
		return false, repositories.ErrNotFound
	}
	for _, existing := range playlist.VideoIDs {
		if existing == videoID {
			return false, nil
		}
	}
	playlist.VideoIDs = append(playlist.VideoIDs, videoID)
	s.playlists[playlistID] = playlist
	return true, nil
}

func (s *fakePlaylistStore) RemoveVideo(_ context.Context, playlistID, ownerID, videoID string) (bool, error) {
	playlist, ok := s.playlists[playlistID]
	if !ok || playlist.OwnerID != ownerID {
		return false, repositories.ErrNotFound
	}
	for i, existing := range playlist.VideoIDs {
		if existing == videoID {
			playlist.VideoIDs = append(playlist.VideoIDs[:i], playlist.VideoIDs[i+1:]...)
			s.playlists[playlistID] = playlist
			return true, nil
		}
	}
	return false, nil
}

const (
	playlistID      = "7c21e8aa-9e6e-4d57-9631-000000000050"
	playlistVideoID = "7c21e8aa-9e6e-4d57-9631-000000000051"
)

func TestPlaylistHandlerCreate(t *testing.T) {
	store := newFakePlaylistStore()
	handler := PlaylistHandler{Playlists: store}

	body, _ := json.Marshal(playlistRequest{Name: "favorites", Description: "best of"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data models.Playlist `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "favorites" || envelope.Data.OwnerID != viewerUserID {
		t.Fatalf("unexpected playlist: %+v", envelope.Data)
	}
	if envelope.Data.VideoIDs == nil {
		t.Fatal("expected videoIds to serialize as an empty array")
	}
}

func TestPlaylistHandlerCreateRequiresName(t *testing.T) {
	handler := PlaylistHandler{Playlists: newFakePlaylistStore()}

	body, _ := json.Marshal(playlistRequest{Description: "missing name"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestPlaylistHandlerAddVideoIdempotent(t *testing.T) {
	store := newFakePlaylistStore()
	store.playlists[playlistID] = models.Playlist{ID: playlistID, OwnerID: viewerUserID}
	handler := PlaylistHandler{Playlists: store}

	add := func() apiResponse {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/"+playlistID+"/videos/"+playlistVideoID, nil)
		req.SetPathValue("playlistId", playlistID)
		req.SetPathValue("videoId", playlistVideoID)
		req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
		rec := httptest.NewRecorder()
		handler.AddVideo(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		var envelope apiResponse
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return envelope
	}

	if envelope := add(); envelope.Message != "Video added to playlist" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
	if envelope := add(); envelope.Message != "Video already in playlist" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
	if got := len(store.playlists[playlistID].VideoIDs); got != 1 {
		t.Fatalf("expected 1 video in playlist got %d", got)
	}
}

func TestPlaylistHandlerMutationsAreOwnerScoped(t *testing.T) {
	store := newFakePlaylistStore()
	store.playlists[playlistID] = models.Playlist{ID: playlistID, OwnerID: otherUserID, Name: "theirs"}
	handler := PlaylistHandler{Playlists: store}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/"+playlistID, nil)
	req.SetPathValue("playlistId", playlistID)
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
	if _, exists := store.playlists[playlistID]; !exists {
		t.Fatal("playlist must survive a non-owner delete")
	}
}

func TestPlaylistHandlerMalformedIDShortCircuits(t *testing.T) {
	handler := PlaylistHandler{Playlists: newFakePlaylistStore()}

	body := func() *bytes.Reader {
		raw, _ := json.Marshal(playlistRequest{Name: "renamed"})
		return bytes.NewReader(raw)
	}

	for _, tc := range []struct {
		name string
		req  func() *http.Request
		call func(http.ResponseWriter, *http.Request)
	}{
		{"update", func() *http.Request {
			return httptest.NewRequest(http.MethodPatch, "/api/v1/playlists/not-a-uuid", body())
		}, handler.Update},
		{"delete", func() *http.Request {
			return httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/not-a-uuid", nil)
		}, handler.Delete},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req()
			req.SetPathValue("playlistId", "not-a-uuid")
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
