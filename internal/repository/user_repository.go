package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"amarhadis/pkg/models"
)

// UserRepository handles user and user-stats persistence
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *models.User) error

	// Stats bookkeeping
	GetStats(ctx context.Context, userID string) (*models.UserStats, error)
	UpdateStats(ctx context.Context, stats *models.UserStats) error
	AddPoints(ctx context.Context, userID string, delta int) (int, error)
	UpdateLevel(ctx context.Context, userID string, level int) error
	IncrementContributions(ctx context.Context, userID string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// Create inserts a new user together with a zeroed stats row
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return r.mapDBError(err, "begin_transaction")
	}
	defer tx.Rollback(ctx)

	userQuery := `
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, CURRENT_TIMESTAMP))
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, userQuery,
		user.ID,
		user.Username,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
	).Scan(&user.CreatedAt)
	if err != nil {
		return r.mapDBError(err, "create_user")
	}

	statsQuery := `
		INSERT INTO user_stats (user_id, hadith_read, current_streak, longest_streak,
			contributions, points, level, last_read_date, updated_at)
		VALUES ($1, 0, 0, 0, 0, 0, 1, '', CURRENT_TIMESTAMP)
	`
	if _, err := tx.Exec(ctx, statsQuery, user.ID); err != nil {
		return r.mapDBError(err, "initialize_user_stats")
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`
	user := &models.User{}
	var roleStr string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &roleStr, &user.CreatedAt,
	)
	if err != nil {
		return nil, r.mapDBError(err, "get_user_by_id")
	}
	user.Role = models.UserRole(roleStr)
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, role, created_at
		FROM users
		WHERE username = $1
	`
	user := &models.User{}
	var roleStr string
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &roleStr, &user.CreatedAt,
	)
	if err != nil {
		return nil, r.mapDBError(err, "get_user_by_username")
	}
	user.Role = models.UserRole(roleStr)
	return user, nil
}

// UsernameExists checks username availability
func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	if err := r.pool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, r.mapDBError(err, "check_username_exists")
	}
	return exists, nil
}

// Update persists user mutations (role changes)
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $2, role = $3
		WHERE id = $1
		RETURNING id
	`
	var updatedID string
	if err := r.pool.QueryRow(ctx, query, user.ID, user.Username, string(user.Role)).Scan(&updatedID); err != nil {
		return r.mapDBError(err, "update_user")
	}
	return nil
}

// GetStats retrieves a user's stats row, initializing it if missing.
// Accounts created before the stats table existed get a lazily created row.
func (r *userRepository) GetStats(ctx context.Context, userID string) (*models.UserStats, error) {
	query := `
		SELECT user_id, hadith_read, current_streak, longest_streak,
			contributions, points, level, last_read_date, updated_at
		FROM user_stats
		WHERE user_id = $1
	`
	stats := &models.UserStats{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.UserID, &stats.HadithRead, &stats.CurrentStreak, &stats.LongestStreak,
		&stats.Contributions, &stats.Points, &stats.Level, &stats.LastReadDate, &stats.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		stats.UserID = userID
		stats.Level = 1
		stats.UpdatedAt = time.Now()

		insertQuery := `
			INSERT INTO user_stats (user_id, hadith_read, current_streak, longest_streak,
				contributions, points, level, last_read_date, updated_at)
			VALUES ($1, 0, 0, 0, 0, 0, 1, '', $2)
			ON CONFLICT (user_id) DO NOTHING
		`
		if _, err := r.pool.Exec(ctx, insertQuery, userID, stats.UpdatedAt); err != nil {
			return nil, r.mapDBError(err, "initialize_user_stats")
		}
		return stats, nil
	}
	if err != nil {
		return nil, r.mapDBError(err, "get_user_stats")
	}
	return stats, nil
}

// UpdateStats writes the full stats row
func (r *userRepository) UpdateStats(ctx context.Context, stats *models.UserStats) error {
	query := `
		UPDATE user_stats
		SET hadith_read = $2, current_streak = $3, longest_streak = $4,
			contributions = $5, points = $6, level = $7, last_read_date = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		stats.UserID, stats.HadithRead, stats.CurrentStreak, stats.LongestStreak,
		stats.Contributions, stats.Points, stats.Level, stats.LastReadDate,
	).Scan(&stats.UpdatedAt)
	if err != nil {
		return r.mapDBError(err, "update_user_stats")
	}
	return nil
}

// AddPoints atomically adds delta to the user's points, returning the new total
func (r *userRepository) AddPoints(ctx context.Context, userID string, delta int) (int, error) {
	query := `
		UPDATE user_stats
		SET points = points + $2, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
		RETURNING points
	`
	var total int
	if err := r.pool.QueryRow(ctx, query, userID, delta).Scan(&total); err != nil {
		return 0, r.mapDBError(err, "add_points")
	}
	return total, nil
}

// UpdateLevel stores the derived level
func (r *userRepository) UpdateLevel(ctx context.Context, userID string, level int) error {
	query := `
		UPDATE user_stats
		SET level = $2, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
		RETURNING user_id
	`
	var id string
	if err := r.pool.QueryRow(ctx, query, userID, level).Scan(&id); err != nil {
		return r.mapDBError(err, "update_level")
	}
	return nil
}

// IncrementContributions bumps the approved-contribution counter
func (r *userRepository) IncrementContributions(ctx context.Context, userID string) error {
	query := `
		UPDATE user_stats
		SET contributions = contributions + 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
		RETURNING user_id
	`
	var id string
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&id); err != nil {
		return r.mapDBError(err, "increment_contributions")
	}
	return nil
}

// mapDBError maps database errors to application errors
func (r *userRepository) mapDBError(err error, operation string) error {
	if err == pgx.ErrNoRows {
		return fmt.Errorf("%s: %w", operation, models.ErrUserNotFound)
	}

	if pgErr, ok := err.(*pgconn.PgError); ok {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", operation, models.ErrUsernameExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: invalid user reference: %w", operation, err)
		}
	}

	return fmt.Errorf("database error during %s: %w", operation, err)
}
