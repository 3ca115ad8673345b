package app

import (
	"context"
	"fmt"

	"github.com/streamhub/backend/internal/auth"
	"github.com/streamhub/backend/internal/config"
	"github.com/streamhub/backend/internal/db"
	"github.com/streamhub/backend/internal/graph"
	"github.com/streamhub/backend/internal/handlers"
	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/repositories"
	"github.com/streamhub/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	users := repositories.NewPostgresUserRepository(pool)

	tokens := auth.NewTokenService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		users,
	)

	media, err := storage.NewS3MediaStore(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure media store: %w", err)
	}

	return handlers.Dependencies{
		Users:     users,
		Tokens:    tokens,
		Verifier:  tokens,
		Graph:     graph.NewService(repositories.NewPostgresEdgeRepository(pool), cfg.AllowSelfFollow),
		Channels:  repositories.NewPostgresChannelRepository(pool),
		Videos:    repositories.NewPostgresVideoRepository(pool),
		Comments:  repositories.NewPostgresCommentRepository(pool),
		Tweets:    repositories.NewPostgresTweetRepository(pool),
		Playlists: repositories.NewPostgresPlaylistRepository(pool),
		Media:     media,

		LoginLimiter: middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow, cfg.LoginRateLimit, 10*cfg.LoginRateWindow),

		SecureCookies: cfg.SecureCookies,
		MaxPageLimit:  cfg.MaxPageLimit,
		HistoryLimit:  cfg.WatchHistoryLimit,
	}, nil
}
