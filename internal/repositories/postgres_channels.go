package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/streamhub/backend/internal/db"
	"github.com/streamhub/backend/internal/models"
)

// PostgresChannelRepository computes the derived channel views that join
// users against their subscription, video, and like edge sets.
type PostgresChannelRepository struct {
	pool db.Pool
}

// NewPostgresChannelRepository constructs a channel repository backed by PostgreSQL.
func NewPostgresChannelRepository(pool db.Pool) *PostgresChannelRepository {
	return &PostgresChannelRepository{pool: pool}
}

// Profile resolves the channel by username and computes both subscription
// counts plus the viewer's isSubscribed flag in a single statement, so the
// counts and the flag cannot disagree with each other. An absent viewerID
// becomes a NULL parameter and the flag reads false.
func (r *PostgresChannelRepository) Profile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT u.id, u.username, u.full_name, u.email, u.avatar, u.cover_image,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
               (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
               EXISTS (
                   SELECT 1 FROM subscriptions s
                   WHERE s.channel_id = u.id AND s.subscriber_id = $2::uuid
               )
        FROM users u
        WHERE u.username = $1
    `, strings.ToLower(username), optionalID(viewerID))

	var profile models.ChannelProfile
	if err := row.Scan(&profile.ID, &profile.Username, &profile.FullName, &profile.Email,
		&profile.Avatar, &profile.CoverImage, &profile.SubscribersCount,
		&profile.SubscribedToCount, &profile.IsSubscribed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChannelProfile{}, ErrNotFound
		}
		return models.ChannelProfile{}, fmt.Errorf("select channel profile: %w", err)
	}

	return profile, nil
}

// Stats reduces the channel's subscription, video, and like edge sets to
// counts. Sums over an empty video set yield zero, not an error.
func (r *PostgresChannelRepository) Stats(ctx context.Context, ownerID string) (models.ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1),
            (SELECT COUNT(*) FROM videos WHERE owner_id = $1),
            (SELECT COUNT(*)
             FROM likes l
             JOIN videos v ON l.target_kind = 'video' AND l.target_id = v.id
             WHERE v.owner_id = $1),
            (SELECT COALESCE(SUM(views), 0) FROM videos WHERE owner_id = $1)
    `, ownerID)

	var stats models.ChannelStats
	if err := row.Scan(&stats.TotalSubscribers, &stats.TotalVideos,
		&stats.TotalLikes, &stats.TotalViews); err != nil {
		return models.ChannelStats{}, fmt.Errorf("select channel stats: %w", err)
	}

	return stats, nil
}

// WatchHistory resolves the user's watched videos strictly in the stored
// order. The ordinality of the unnested history array drives the sort, not
// any video column.
func (r *PostgresChannelRepository) WatchHistory(ctx context.Context, userID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_file, v.thumbnail,
               v.duration_seconds, v.views, v.published, v.created_at,
               o.id, o.username, o.full_name, o.avatar
        FROM users u
        CROSS JOIN unnest(u.watch_history) WITH ORDINALITY AS h(video_id, position)
        JOIN videos v ON v.id = h.video_id
        JOIN users o ON o.id = v.owner_id
        WHERE u.id = $1
        ORDER BY h.position
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var (
			video models.Video
			owner models.PublicUser
		)
		if err := rows.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Description,
			&video.VideoFile, &video.Thumbnail, &video.DurationSeconds, &video.Views,
			&video.Published, &video.CreatedAt,
			&owner.ID, &owner.Username, &owner.FullName, &owner.Avatar); err != nil {
			return nil, fmt.Errorf("scan watch history row: %w", err)
		}
		video.Owner = &owner
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return videos, nil
}

var _ ChannelRepository = (*PostgresChannelRepository)(nil)
