package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"amarhadis/pkg/models"
)

// InteractionRepository handles favorites, ratings, comments and read events
type InteractionRepository interface {
	// Favorites
	AddFavorite(ctx context.Context, fav *models.Favorite) error
	RemoveFavorite(ctx context.Context, userID, hadithID string) error
	CountFavoritesByUser(ctx context.Context, userID string) (int, error)
	CountFavoritesByHadith(ctx context.Context, hadithID string) (int, error)
	ListFavorites(ctx context.Context, userID string, limit, offset int) ([]models.Favorite, int, error)
	IsFavorited(ctx context.Context, userID, hadithID string) (bool, error)

	// Ratings
	UpsertRating(ctx context.Context, rating *models.Rating) error
	GetAverageRating(ctx context.Context, hadithID string) (float64, int, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, hadithID string, limit, offset int) ([]models.Comment, int, error)
	DeleteComment(ctx context.Context, commentID, userID string) error

	// Read events
	InsertReadEvent(ctx context.Context, event *models.ReadEvent) (bool, error)
}

type interactionRepository struct {
	pool *pgxpool.Pool
}

// NewInteractionRepository creates a new PostgreSQL interaction repository
func NewInteractionRepository(pool *pgxpool.Pool) InteractionRepository {
	return &interactionRepository{pool: pool}
}

// AddFavorite inserts a favorite row; duplicates surface as ErrAlreadyFavorited
func (r *interactionRepository) AddFavorite(ctx context.Context, fav *models.Favorite) error {
	query := `
		INSERT INTO favorites (id, user_id, hadith_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query, fav.ID, fav.UserID, fav.HadithID, fav.CreatedAt).Scan(&fav.CreatedAt)
	if err != nil {
		return r.mapDBError(err, "add_favorite")
	}
	return nil
}

// RemoveFavorite deletes the favorite row if present
func (r *interactionRepository) RemoveFavorite(ctx context.Context, userID, hadithID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND hadith_id = $2`
	tag, err := r.pool.Exec(ctx, query, userID, hadithID)
	if err != nil {
		return r.mapDBError(err, "remove_favorite")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("remove_favorite: %w", models.ErrNotFound)
	}
	return nil
}

// CountFavoritesByUser is the live count consulted by the achievement engine
func (r *interactionRepository) CountFavoritesByUser(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM favorites WHERE user_id = $1`
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, r.mapDBError(err, "count_favorites_by_user")
	}
	return count, nil
}

// CountFavoritesByHadith counts saves for one hadith (trending weight)
func (r *interactionRepository) CountFavoritesByHadith(ctx context.Context, hadithID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM favorites WHERE hadith_id = $1`
	if err := r.pool.QueryRow(ctx, query, hadithID).Scan(&count); err != nil {
		return 0, r.mapDBError(err, "count_favorites_by_hadith")
	}
	return count, nil
}

// ListFavorites pages through a user's saved hadiths, newest first
func (r *interactionRepository) ListFavorites(ctx context.Context, userID string, limit, offset int) ([]models.Favorite, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM favorites WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, r.mapDBError(err, "count_favorites")
	}

	query := `
		SELECT id, user_id, hadith_id, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, r.mapDBError(err, "list_favorites")
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.HadithID, &f.CreatedAt); err != nil {
			return nil, 0, r.mapDBError(err, "scan_favorite")
		}
		favorites = append(favorites, f)
	}
	return favorites, total, nil
}

// IsFavorited checks whether the user saved this hadith
func (r *interactionRepository) IsFavorited(ctx context.Context, userID, hadithID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND hadith_id = $2)`
	if err := r.pool.QueryRow(ctx, query, userID, hadithID).Scan(&exists); err != nil {
		return false, r.mapDBError(err, "is_favorited")
	}
	return exists, nil
}

// UpsertRating creates or replaces the user's star rating
func (r *interactionRepository) UpsertRating(ctx context.Context, rating *models.Rating) error {
	query := `
		INSERT INTO ratings (id, user_id, hadith_id, stars, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, hadith_id) DO UPDATE
		SET stars = EXCLUDED.stars, updated_at = CURRENT_TIMESTAMP
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		rating.ID, rating.UserID, rating.HadithID, rating.Stars,
	).Scan(&rating.CreatedAt, &rating.UpdatedAt)
	if err != nil {
		return r.mapDBError(err, "upsert_rating")
	}
	return nil
}

// GetAverageRating returns the mean stars and vote count for a hadith
func (r *interactionRepository) GetAverageRating(ctx context.Context, hadithID string) (float64, int, error) {
	var avg float64
	var count int
	query := `SELECT COALESCE(AVG(stars), 0), COUNT(*) FROM ratings WHERE hadith_id = $1`
	if err := r.pool.QueryRow(ctx, query, hadithID).Scan(&avg, &count); err != nil {
		return 0, 0, r.mapDBError(err, "get_average_rating")
	}
	return avg, count, nil
}

// CreateComment inserts a comment
func (r *interactionRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, hadith_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		comment.ID, comment.HadithID, comment.UserID, comment.Content, comment.CreatedAt,
	).Scan(&comment.CreatedAt)
	if err != nil {
		return r.mapDBError(err, "create_comment")
	}
	return nil
}

// ListComments pages through a hadith's comments with usernames joined
func (r *interactionRepository) ListComments(ctx context.Context, hadithID string, limit, offset int) ([]models.Comment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE hadith_id = $1`, hadithID).Scan(&total); err != nil {
		return nil, 0, r.mapDBError(err, "count_comments")
	}

	query := `
		SELECT c.id, c.hadith_id, c.user_id, u.username, c.content, c.created_at
		FROM comments c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.hadith_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, hadithID, limit, offset)
	if err != nil {
		return nil, 0, r.mapDBError(err, "list_comments")
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.HadithID, &c.UserID, &c.Username, &c.Content, &c.CreatedAt); err != nil {
			return nil, 0, r.mapDBError(err, "scan_comment")
		}
		comments = append(comments, c)
	}
	return comments, total, nil
}

// DeleteComment removes the user's own comment
func (r *interactionRepository) DeleteComment(ctx context.Context, commentID, userID string) error {
	query := `DELETE FROM comments WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, commentID, userID)
	if err != nil {
		return r.mapDBError(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete_comment: %w", models.ErrNotFound)
	}
	return nil
}

// InsertReadEvent records one read per (user, hadith, date). Returns false
// when the event already existed, so re-reads do not inflate stats.
func (r *interactionRepository) InsertReadEvent(ctx context.Context, event *models.ReadEvent) (bool, error) {
	query := `
		INSERT INTO read_events (id, user_id, hadith_id, date_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, hadith_id, date_key) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query,
		event.ID, event.UserID, event.HadithID, event.DateKey, event.CreatedAt,
	)
	if err != nil {
		return false, r.mapDBError(err, "insert_read_event")
	}
	return tag.RowsAffected() > 0, nil
}

// mapDBError maps database errors to application errors
func (r *interactionRepository) mapDBError(err error, operation string) error {
	if err == pgx.ErrNoRows {
		return fmt.Errorf("%s: %w", operation, models.ErrNotFound)
	}

	if pgErr, ok := err.(*pgconn.PgError); ok {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", operation, models.ErrAlreadyFavorited)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", operation, models.ErrHadithNotFound)
		}
	}

	return fmt.Errorf("database error during %s: %w", operation, err)
}
