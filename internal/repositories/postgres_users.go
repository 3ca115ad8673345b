package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/streamhub/backend/internal/db"
	"github.com/streamhub/backend/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, email, full_name, password_hash, avatar, cover_image,
        COALESCE(refresh_token, ''), watch_history, created_at, updated_at`

// Create persists a new user record. Usernames are stored case-normalized.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, username, email, full_name, password_hash, avatar, cover_image, watch_history, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, '{}', $8, $9)
    `, user.ID, strings.ToLower(user.Username), strings.ToLower(user.Email), user.FullName,
		user.Password, user.Avatar, user.CoverImage, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByID fetches a user by its identity key.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// FindByUsername fetches a user by case-normalized username.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, `WHERE username = $1`, strings.ToLower(username))
}

// FindByLogin matches the identifier against username or email.
func (r *PostgresUserRepository) FindByLogin(ctx context.Context, identifier string) (models.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	return r.findOne(ctx, `WHERE username = $1 OR email = $1`, identifier)
}

func (r *PostgresUserRepository) findOne(ctx context.Context, where string, args ...any) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users `+where, args...)
	return scanUser(row)
}

// UpdateDetails modifies the user's full name and email.
func (r *PostgresUserRepository) UpdateDetails(ctx context.Context, id, fullName, email string) (models.User, error) {
	return r.updateReturning(ctx, `
        UPDATE users
        SET full_name = $2, email = $3, updated_at = NOW()
        WHERE id = $1
        RETURNING `+userColumns, id, fullName, strings.ToLower(email))
}

// UpdateAvatar replaces the user's avatar reference.
func (r *PostgresUserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) (models.User, error) {
	return r.updateReturning(ctx, `
        UPDATE users
        SET avatar = $2, updated_at = NOW()
        WHERE id = $1
        RETURNING `+userColumns, id, avatarURL)
}

// UpdateCoverImage replaces the user's cover image reference.
func (r *PostgresUserRepository) UpdateCoverImage(ctx context.Context, id, coverURL string) (models.User, error) {
	return r.updateReturning(ctx, `
        UPDATE users
        SET cover_image = $2, updated_at = NOW()
        WHERE id = $1
        RETURNING `+userColumns, id, coverURL)
}

func (r *PostgresUserRepository) updateReturning(ctx context.Context, query string, args ...any) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	user, err := scanUser(conn.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, ErrConflict
		}
		return models.User{}, err
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET password_hash = $2, updated_at = NOW()
        WHERE id = $1
    `, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRefreshToken unconditionally replaces the stored refresh token.
func (r *PostgresUserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET refresh_token = $2
        WHERE id = $1
    `, id, token)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RotateRefreshToken swaps the stored token for next only while the stored
// value still equals presented. The WHERE clause makes the comparison and the
// write one atomic statement, so concurrent rotations with the same token
// cannot both succeed.
func (r *PostgresUserRepository) RotateRefreshToken(ctx context.Context, id, presented, next string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET refresh_token = $3
        WHERE id = $1 AND refresh_token = $2
    `, id, presented, next)
	if err != nil {
		return false, fmt.Errorf("rotate refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClearRefreshToken removes the stored refresh token. Idempotent.
func (r *PostgresUserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        UPDATE users
        SET refresh_token = NULL
        WHERE id = $1
    `, id); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// PrependWatchHistory records a view event at the front of the watch history,
// keeping at most limit entries. Duplicate entries are allowed: every view is
// its own event.
func (r *PostgresUserRepository) PrependWatchHistory(ctx context.Context, id, videoID string, limit int) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET watch_history = (
            SELECT COALESCE(array_agg(h.video_id ORDER BY h.position), '{}')
            FROM unnest(array_prepend($2::text, watch_history)) WITH ORDINALITY AS h(video_id, position)
            WHERE h.position <= $3
        )
        WHERE id = $1
    `, id, videoID, limit)
	if err != nil {
		return fmt.Errorf("prepend watch history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.Password,
		&user.Avatar, &user.CoverImage, &user.RefreshToken, &user.WatchHistory,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
