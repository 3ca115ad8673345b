package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamhub/backend/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    240 * time.Hour,
		MaxPageLimit:       100,
		WatchHistoryLimit:  200,
		LoginRateLimit:     10,
		LoginRateWindow:    time.Minute,
		ObjectStore:        config.ObjectStoreConfig{Bucket: "test-bucket", Endpoint: "http://localhost:9000", Region: "us-east-1"},
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, err := buildDependencies(context.Background(), fakePool{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deps.Users == nil {
		t.Fatal("expected user repository to be configured")
	}
	if deps.Tokens == nil {
		t.Fatal("expected token service to be configured")
	}
	if deps.Verifier == nil {
		t.Fatal("expected access verifier to be configured")
	}
	if deps.Graph == nil {
		t.Fatal("expected graph service to be configured")
	}
	if deps.Channels == nil {
		t.Fatal("expected channel repository to be configured")
	}
	if deps.Videos == nil || deps.Comments == nil || deps.Tweets == nil || deps.Playlists == nil {
		t.Fatal("expected content repositories to be configured")
	}
	if deps.Media == nil {
		t.Fatal("expected media store to be configured")
	}
	if deps.LoginLimiter == nil {
		t.Fatal("expected login rate limiter to be configured")
	}
}
