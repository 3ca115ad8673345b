package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/streamhub/backend/internal/db"
	"github.com/streamhub/backend/internal/graph"
	"github.com/streamhub/backend/internal/models"
)

// PostgresEdgeRepository persists subscription and like edges. Each toggle
// half is a single statement guarded by the pair's unique index, which is
// what keeps concurrent toggles from duplicating or double-deleting edges.
type PostgresEdgeRepository struct {
	pool db.Pool
}

// NewPostgresEdgeRepository constructs an edge repository backed by PostgreSQL.
func NewPostgresEdgeRepository(pool db.Pool) *PostgresEdgeRepository {
	return &PostgresEdgeRepository{pool: pool}
}

// InsertSubscription adds the edge unless the (subscriber, channel) pair
// already exists, reporting whether a row was written.
func (r *PostgresEdgeRepository) InsertSubscription(ctx context.Context, sub models.Subscription) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (subscriber_id, channel_id) DO NOTHING
    `, sub.ID, sub.SubscriberID, sub.ChannelID, sub.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert subscription: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteSubscription removes the edge for the pair, returning it when it existed.
func (r *PostgresEdgeRepository) DeleteSubscription(ctx context.Context, subscriberID, channelID string) (models.Subscription, bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Subscription{}, false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        DELETE FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
        RETURNING id, subscriber_id, channel_id, created_at
    `, subscriberID, channelID)

	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.SubscriberID, &sub.ChannelID, &sub.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Subscription{}, false, nil
		}
		return models.Subscription{}, false, fmt.Errorf("delete subscription: %w", err)
	}
	return sub, true, nil
}

// InsertLike adds the edge unless the (likedBy, kind, target) triple exists.
func (r *PostgresEdgeRepository) InsertLike(ctx context.Context, like models.Like) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        INSERT INTO likes (id, liked_by, target_kind, target_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (liked_by, target_kind, target_id) DO NOTHING
    `, like.ID, like.LikedBy, string(like.TargetKind), like.TargetID, like.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteLike removes the edge for the triple, returning it when it existed.
func (r *PostgresEdgeRepository) DeleteLike(ctx context.Context, likedBy string, kind models.LikeTarget, targetID string) (models.Like, bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Like{}, false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        DELETE FROM likes
        WHERE liked_by = $1 AND target_kind = $2 AND target_id = $3
        RETURNING id, liked_by, target_kind, target_id, created_at
    `, likedBy, string(kind), targetID)

	var like models.Like
	if err := row.Scan(&like.ID, &like.LikedBy, &like.TargetKind, &like.TargetID, &like.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Like{}, false, nil
		}
		return models.Like{}, false, fmt.Errorf("delete like: %w", err)
	}
	return like, true, nil
}

// ListSubscribers joins the channel's subscription edges against users,
// projecting public fields only, newest subscription first.
func (r *PostgresEdgeRepository) ListSubscribers(ctx context.Context, channelID string, limit, offset int) ([]models.PublicUser, error) {
	return r.listEdgeUsers(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC
        LIMIT $2 OFFSET $3
    `, channelID, limit, offset)
}

// ListSubscriptions joins the user's outgoing edges against channel users,
// newest subscription first.
func (r *PostgresEdgeRepository) ListSubscriptions(ctx context.Context, subscriberID string, limit, offset int) ([]models.PublicUser, error) {
	return r.listEdgeUsers(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC
        LIMIT $2 OFFSET $3
    `, subscriberID, limit, offset)
}

func (r *PostgresEdgeRepository) listEdgeUsers(ctx context.Context, query string, args ...any) ([]models.PublicUser, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query subscription users: %w", err)
	}
	defer rows.Close()

	users := []models.PublicUser{}
	for rows.Next() {
		var user models.PublicUser
		if err := rows.Scan(&user.ID, &user.Username, &user.FullName, &user.Avatar); err != nil {
			return nil, fmt.Errorf("scan subscription user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription users: %w", err)
	}

	return users, nil
}

// ListLikedVideos joins video-targeted like edges against videos and their
// owners, newest like first.
func (r *PostgresEdgeRepository) ListLikedVideos(ctx context.Context, userID string, limit, offset int) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_file, v.thumbnail,
               v.duration_seconds, v.views, v.published, v.created_at,
               o.id, o.username, o.full_name, o.avatar
        FROM likes l
        JOIN videos v ON v.id = l.target_id
        JOIN users o ON o.id = v.owner_id
        WHERE l.liked_by = $1 AND l.target_kind = 'video'
        ORDER BY l.created_at DESC
        LIMIT $2 OFFSET $3
    `, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
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
			return nil, fmt.Errorf("scan liked video: %w", err)
		}
		video.Owner = &owner
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}

	return videos, nil
}

var _ graph.EdgeStore = (*PostgresEdgeRepository)(nil)
