package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
)

func TestDashboardHandlerStats(t *testing.T) {
	store := &fakeChannelStore{stats: map[string]models.ChannelStats{
		viewerUserID: {TotalSubscribers: 4, TotalVideos: 2, TotalLikes: 9, TotalViews: 120},
	}}
	handler := DashboardHandler{Channels: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var envelope struct {
		Data models.ChannelStats `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalViews != 120 || envelope.Data.TotalSubscribers != 4 {
		t.Fatalf("unexpected stats: %+v", envelope.Data)
	}
}

func TestDashboardHandlerStatsEmptyChannel(t *testing.T) {
	// A channel with no uploads reports zero totals rather than an error.
	store := &fakeChannelStore{stats: map[string]models.ChannelStats{}}
	handler := DashboardHandler{Channels: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var envelope struct {
		Data models.ChannelStats `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data != (models.ChannelStats{}) {
		t.Fatalf("expected zero stats, got %+v", envelope.Data)
	}
}

func TestDashboardHandlerVideos(t *testing.T) {
	videos := newFakeVideoStore()
	videos.videos["v1"] = models.Video{ID: "v1", OwnerID: viewerUserID, Published: false}
	videos.videos["v2"] = models.Video{ID: "v2", OwnerID: otherUserID}
	handler := DashboardHandler{Channels: &fakeChannelStore{}, Videos: videos, MaxPageLimit: 100}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/videos", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: viewerUserID}))
	rec := httptest.NewRecorder()

	handler.ListVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var envelope struct {
		Data []models.Video `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].ID != "v1" {
		t.Fatalf("expected only the owner's videos, got %+v", envelope.Data)
	}
}

func TestDashboardHandlerRequiresAuth(t *testing.T) {
	handler := DashboardHandler{Channels: &fakeChannelStore{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	rec := httptest.NewRecorder()

	handler.Stats(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
}
