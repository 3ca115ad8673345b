package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/streamhub/backend/internal/db"
	"github.com/streamhub/backend/internal/models"
)

// PostgresPlaylistRepository provides PostgreSQL-backed persistence for
// playlists and their video membership set.
type PostgresPlaylistRepository struct {
	pool db.Pool
}

// NewPostgresPlaylistRepository constructs a playlist repository backed by PostgreSQL.
func NewPostgresPlaylistRepository(pool db.Pool) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{pool: pool}
}

// Create persists a new, empty playlist.
func (r *PostgresPlaylistRepository) Create(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO playlists (id, owner_id, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description,
		playlist.CreatedAt, playlist.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert playlist: %w", err)
	}

	return nil
}

// FindByID fetches a playlist together with its member video ids.
func (r *PostgresPlaylistRepository) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT p.id, p.owner_id, p.name, p.description, p.created_at, p.updated_at,
               COALESCE(array_agg(pv.video_id ORDER BY pv.added_at) FILTER (WHERE pv.video_id IS NOT NULL), '{}')
        FROM playlists p
        LEFT JOIN playlist_videos pv ON pv.playlist_id = p.id
        WHERE p.id = $1
        GROUP BY p.id
    `, id)

	return scanPlaylist(row)
}

// ListForUser returns the user's playlists with their member video ids.
func (r *PostgresPlaylistRepository) ListForUser(ctx context.Context, ownerID string) ([]models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT p.id, p.owner_id, p.name, p.description, p.created_at, p.updated_at,
               COALESCE(array_agg(pv.video_id ORDER BY pv.added_at) FILTER (WHERE pv.video_id IS NOT NULL), '{}')
        FROM playlists p
        LEFT JOIN playlist_videos pv ON pv.playlist_id = p.id
        WHERE p.owner_id = $1
        GROUP BY p.id
        ORDER BY p.created_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}

	return playlists, nil
}

// UpdateDetails renames a playlist. Owner-scoped: a non-owner sees ErrNotFound.
func (r *PostgresPlaylistRepository) UpdateDetails(ctx context.Context, id, ownerID, name, description string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE playlists
        SET name = $3, description = $4, updated_at = NOW()
        WHERE id = $1 AND owner_id = $2
    `, id, ownerID, name, description)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("update playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.Playlist{}, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes a playlist and its membership rows. Owner-scoped.
func (r *PostgresPlaylistRepository) Delete(ctx context.Context, id, ownerID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM playlists
        WHERE id = $1 AND owner_id = $2
    `, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddVideo inserts the video into the playlist's set. The membership primary
// key gives add-to-set semantics: re-adding an existing member is a no-op.
func (r *PostgresPlaylistRepository) AddVideo(ctx context.Context, playlistID, ownerID, videoID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        INSERT INTO playlist_videos (playlist_id, video_id, added_at)
        SELECT p.id, $3, NOW()
        FROM playlists p
        WHERE p.id = $1 AND p.owner_id = $2
        ON CONFLICT (playlist_id, video_id) DO NOTHING
    `, playlistID, ownerID, videoID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("add playlist video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish "already a member" from "playlist missing or foreign".
		var exists bool
		if err := conn.QueryRow(ctx, `
            SELECT EXISTS (SELECT 1 FROM playlists WHERE id = $1 AND owner_id = $2)
        `, playlistID, ownerID).Scan(&exists); err != nil {
			return false, fmt.Errorf("check playlist ownership: %w", err)
		}
		if !exists {
			return false, ErrNotFound
		}
		return false, nil
	}

	return true, nil
}

// RemoveVideo deletes the video from the playlist's set. Owner-scoped.
func (r *PostgresPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM playlist_videos pv
        USING playlists p
        WHERE pv.playlist_id = p.id
          AND p.id = $1 AND p.owner_id = $2 AND pv.video_id = $3
    `, playlistID, ownerID, videoID)
	if err != nil {
		return false, fmt.Errorf("remove playlist video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := conn.QueryRow(ctx, `
            SELECT EXISTS (SELECT 1 FROM playlists WHERE id = $1 AND owner_id = $2)
        `, playlistID, ownerID).Scan(&exists); err != nil {
			return false, fmt.Errorf("check playlist ownership: %w", err)
		}
		if !exists {
			return false, ErrNotFound
		}
		return false, nil
	}

	return true, nil
}

func scanPlaylist(row pgx.Row) (models.Playlist, error) {
	var playlist models.Playlist
	err := row.Scan(&playlist.ID, &playlist.OwnerID, &playlist.Name, &playlist.Description,
		&playlist.CreatedAt, &playlist.UpdatedAt, &playlist.VideoIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Playlist{}, ErrNotFound
		}
		return models.Playlist{}, fmt.Errorf("scan playlist: %w", err)
	}
	return playlist, nil
}

var _ PlaylistRepository = (*PostgresPlaylistRepository)(nil)
