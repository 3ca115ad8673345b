package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/streamhub/backend/internal/graph"
	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
	"github.com/streamhub/backend/internal/repositories"
)

type fakeChannelStore struct {
	profiles map[string]models.ChannelProfile
	stats    map[string]models.ChannelStats
	history  map[string][]models.Video

	lastViewerID string
}

func (s *fakeChannelStore) Profile(_ context.Context, username, viewerID string) (models.ChannelProfile, error) {
	s.lastViewerID = viewerID
	profile, ok := s.profiles[username]
	if !ok {
		return models.ChannelProfile{}, repositories.ErrNotFound
	}
	return profile, nil
}

func (s *fakeChannelStore) Stats(_ context.Context, ownerID string) (models.ChannelStats, error) {
	return s.stats[ownerID], nil
}

func (s *fakeChannelStore) WatchHistory(_ context.Context, userID string) ([]models.Video, error) {
	return s.history[userID], nil
}

const (
	viewerUserID  = "7c21e8aa-9e6e-4d57-9631-000000000010"
	channelUserID = "7c21e8aa-9e6e-4d57-9631-000000000011"
)

func TestChannelHandlerProfile(t *testing.T) {
	store := &fakeChannelStore{profiles: map[string]models.ChannelProfile{
		"alice": {ID: channelUserID, Username: "alice", SubscribersCount: 3, IsSubscribed: true},
	}}
	handler := ChannelHandler{Channels: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/alice", nil)
	req.SetPathValue("username", "Alice")
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.Profile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if store.lastViewerID != viewerUserID {
		t.Fatalf("expected viewer id to reach the store, got %q", store.lastViewerID)
	}

	var envelope struct {
		Data models.ChannelProfile `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.SubscribersCount != 3 || !envelope.Data.IsSubscribed {
		t.Fatalf("unexpected profile: %+v", envelope.Data)
	}
}

func TestChannelHandlerProfileAnonymous(t *testing.T) {
	store := &fakeChannelStore{profiles: map[string]models.ChannelProfile{
		"alice": {ID: channelUserID, Username: "alice"},
	}}
	handler := ChannelHandler{Channels: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/alice", nil)
	req.SetPathValue("username", "alice")
	rec := httptest.NewRecorder()

	handler.Profile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if store.lastViewerID != "" {
		t.Fatalf("expected empty viewer id for anonymous request, got %q", store.lastViewerID)
	}
}

func TestChannelHandlerProfileUnknown(t *testing.T) {
	handler := ChannelHandler{Channels: &fakeChannelStore{profiles: map[string]models.ChannelProfile{}}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/ghost", nil)
	req.SetPathValue("username", "ghost")
	rec := httptest.NewRecorder()

	handler.Profile(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
	var envelope apiResponse
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Message != "Channel does not exist" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestChannelHandlerToggleSubscription(t *testing.T) {
	handler := ChannelHandler{Graph: graph.NewService(graph.NewInMemoryEdgeStore(), false)}

	subscribe := func() (*httptest.ResponseRecorder, apiResponse) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/channels/"+channelUserID+"/subscription", nil)
		req.SetPathValue("channelId", channelUserID)
		req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
		rec := httptest.NewRecorder()
		handler.ToggleSubscription(rec, req)

		var envelope apiResponse
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return rec, envelope
	}

	rec, envelope := subscribe()
	if rec.Code != http.StatusOK || envelope.Message != "Subscribed successfully" {
		t.Fatalf("first toggle: status %d message %q", rec.Code, envelope.Message)
	}

	rec, envelope = subscribe()
	if rec.Code != http.StatusOK || envelope.Message != "Unsubscribed successfully" {
		t.Fatalf("second toggle: status %d message %q", rec.Code, envelope.Message)
	}
}

func TestChannelHandlerToggleSubscriptionSelf(t *testing.T) {
	handler := ChannelHandler{Graph: graph.NewService(graph.NewInMemoryEdgeStore(), false)}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/channels/"+viewerUserID+"/subscription", nil)
	req.SetPathValue("channelId", viewerUserID)
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.ToggleSubscription(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestChannelHandlerToggleSubscriptionInvalidID(t *testing.T) {
	handler := ChannelHandler{Graph: graph.NewService(graph.NewInMemoryEdgeStore(), false)}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/channels/nope/subscription", nil)
	req.SetPathValue("channelId", "nope")
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.ToggleSubscription(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestChannelHandlerWatchHistory(t *testing.T) {
	store := &fakeChannelStore{history: map[string][]models.Video{
		viewerUserID: {{ID: "v1", Title: "latest"}, {ID: "v2", Title: "older"}},
	}}
	handler := ChannelHandler{Channels: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me/history", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.WatchHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var envelope struct {
		Data []models.Video `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 || envelope.Data[0].Title != "latest" {
		t.Fatalf("unexpected history: %+v", envelope.Data)
	}
}

func TestChannelHandlerWatchHistoryRequiresAuth(t *testing.T) {
	handler := ChannelHandler{Channels: &fakeChannelStore{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me/history", nil)
	rec := httptest.NewRecorder()

	handler.WatchHistory(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
}
