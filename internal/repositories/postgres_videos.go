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

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

const videoColumns = `id, owner_id, title, description, video_file, thumbnail,
        duration_seconds, views, published, created_at`

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, title, description, video_file, thumbnail, duration_seconds, views, published, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)
    `, video.ID, video.OwnerID, video.Title, video.Description, video.VideoFile,
		video.Thumbnail, video.DurationSeconds, video.Published, video.CreatedAt)
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
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a video by id.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	return scanVideo(row)
}

// List returns videos matching the filter. Sort columns are mapped through an
// allow-list; anything unrecognised falls back to creation time.
func (r *PostgresVideoRepository) List(ctx context.Context, filter VideoListFilter) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	sortColumn := "created_at"
	switch filter.SortBy {
	case "views":
		sortColumn = "views"
	case "title":
		sortColumn = "title"
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+`
        FROM videos
        WHERE published
          AND ($1 = '' OR title ILIKE '%' || $1 || '%')
          AND ($2::uuid IS NULL OR owner_id = $2::uuid)
        ORDER BY `+sortColumn+` `+direction+`
        LIMIT $3 OFFSET $4
    `, filter.TitleQuery, optionalID(filter.OwnerID), filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

// ListForOwner returns the owner's uploads newest first.
func (r *PostgresVideoRepository) ListForOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+`
        FROM videos
        WHERE owner_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query owner videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

// UpdateDetails modifies a video's title, description, and thumbnail.
func (r *PostgresVideoRepository) UpdateDetails(ctx context.Context, id, title, description, thumbnail string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail = $4
        WHERE id = $1
        RETURNING `+videoColumns, id, title, description, thumbnail)
	return scanVideo(row)
}

// Delete removes a video record.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews adds one view to the video.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var video models.Video
	err := row.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Description,
		&video.VideoFile, &video.Thumbnail, &video.DurationSeconds, &video.Views,
		&video.Published, &video.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("scan video: %w", err)
	}
	return video, nil
}

func collectVideos(rows pgx.Rows) ([]models.Video, error) {
	videos := []models.Video{}
	for rows.Next() {
		var video models.Video
		if err := rows.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Description,
			&video.VideoFile, &video.Thumbnail, &video.DurationSeconds, &video.Views,
			&video.Published, &video.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
