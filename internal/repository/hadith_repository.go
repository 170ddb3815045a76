package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"amarhadis/pkg/models"
)

// HadithRepository handles hadith catalog persistence
type HadithRepository interface {
	// Core CRUD operations
	Create(ctx context.Context, hadith *models.Hadith) error
	GetByID(ctx context.Context, id string) (*models.Hadith, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Hadith, error)
	List(ctx context.Context, filter models.HadithFilter, limit, offset int) ([]models.Hadith, int, error)
	UpdateStatus(ctx context.Context, id string, status models.HadithStatus) error

	// Resolver support
	ListByStatus(ctx context.Context, status models.HadithStatus, limit int) ([]models.Hadith, error)
	ListAny(ctx context.Context, limit int) ([]models.Hadith, error)
	UpsertAll(ctx context.Context, hadiths []models.Hadith) error

	// Counters and ranking
	IncrementViewCount(ctx context.Context, id string) error
	IncrementLikeCount(ctx context.Context, id string) error
	IncrementShareCount(ctx context.Context, id string) error
	UpdateWeeklyScore(ctx context.Context, id string, score int) error
	GetTrending(ctx context.Context, limit int) ([]*models.TrendingHadith, error)

	// Search
	Search(ctx context.Context, query string, limit, offset int) ([]*models.HadithSearchResult, int, error)

	// Transaction support
	WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type hadithRepository struct {
	pool *pgxpool.Pool
}

// NewHadithRepository creates a new PostgreSQL hadith repository
func NewHadithRepository(pool *pgxpool.Pool) HadithRepository {
	return &hadithRepository{pool: pool}
}

const hadithColumns = `id, book_id, category_id, arabic_text, bangla_text, english_text,
	narrator, grade, reference, explanation, difficulty, status,
	view_count, like_count, share_count, weekly_score,
	is_featured, is_daily_special, created_at, updated_at`

func scanHadith(row pgx.Row) (*models.Hadith, error) {
	h := &models.Hadith{}
	var gradeStr, statusStr string
	err := row.Scan(
		&h.ID, &h.BookID, &h.CategoryID, &h.ArabicText, &h.BanglaText, &h.EnglishText,
		&h.Narrator, &gradeStr, &h.Reference, &h.Explanation, &h.Difficulty, &statusStr,
		&h.ViewCount, &h.LikeCount, &h.ShareCount, &h.WeeklyScore,
		&h.IsFeatured, &h.IsDailySpecial, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.Grade = models.HadithGrade(gradeStr)
	h.Status = models.HadithStatus(statusStr)
	return h, nil
}

// Create inserts a new hadith
func (r *hadithRepository) Create(ctx context.Context, hadith *models.Hadith) error {
	query := `
		INSERT INTO hadiths (id, book_id, category_id, arabic_text, bangla_text, english_text,
			narrator, grade, reference, explanation, difficulty, status,
			is_featured, is_daily_special, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, COALESCE($15, CURRENT_TIMESTAMP))
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		hadith.ID,
		hadith.BookID,
		hadith.CategoryID,
		hadith.ArabicText,
		hadith.BanglaText,
		hadith.EnglishText,
		hadith.Narrator,
		string(hadith.Grade),
		hadith.Reference,
		hadith.Explanation,
		hadith.Difficulty,
		string(hadith.Status),
		hadith.IsFeatured,
		hadith.IsDailySpecial,
		hadith.CreatedAt,
	).Scan(&hadith.CreatedAt, &hadith.UpdatedAt)

	if err != nil {
		return r.mapDBError(err, "create_hadith")
	}
	return nil
}

// GetByID retrieves a hadith by ID
func (r *hadithRepository) GetByID(ctx context.Context, id string) (*models.Hadith, error) {
	query := `SELECT ` + hadithColumns + ` FROM hadiths WHERE id = $1`
	h, err := scanHadith(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.mapDBError(err, "get_hadith_by_id")
	}
	return h, nil
}

// GetByIDs retrieves hadiths preserving the order of the supplied ids.
// Ids that do not resolve are silently skipped.
func (r *hadithRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Hadith, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + hadithColumns + ` FROM hadiths WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, r.mapDBError(err, "get_hadiths_by_ids")
	}
	defer rows.Close()

	byID := make(map[string]models.Hadith, len(ids))
	for rows.Next() {
		h, err := scanHadith(rows)
		if err != nil {
			return nil, r.mapDBError(err, "scan_hadith")
		}
		byID[h.ID] = *h
	}

	ordered := make([]models.Hadith, 0, len(ids))
	for _, id := range ids {
		if h, ok := byID[id]; ok {
			ordered = append(ordered, h)
		}
	}
	return ordered, nil
}

// List retrieves hadiths with optional filters and pagination
func (r *hadithRepository) List(ctx context.Context, filter models.HadithFilter, limit, offset int) ([]models.Hadith, int, error) {
	args := []interface{}{}
	filters := []string{}
	param := 1

	addFilter := func(column, value string) {
		if value != "" {
			filters = append(filters, fmt.Sprintf("%s = $%d", column, param))
			args = append(args, value)
			param++
		}
	}
	addFilter("book_id", filter.BookID)
	addFilter("category_id", filter.CategoryID)
	addFilter("difficulty", filter.Difficulty)
	addFilter("grade", filter.Grade)
	addFilter("status", filter.Status)
	if filter.Featured != nil {
		filters = append(filters, fmt.Sprintf("is_featured = $%d", param))
		args = append(args, *filter.Featured)
		param++
	}

	where := ""
	if len(filters) > 0 {
		where = " WHERE " + strings.Join(filters, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM hadiths" + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, r.mapDBError(err, "count_hadiths")
	}

	selectQuery := fmt.Sprintf(
		"SELECT "+hadithColumns+" FROM hadiths"+where+" ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		param, param+1,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, r.mapDBError(err, "list_hadiths")
	}
	defer rows.Close()

	var hadiths []models.Hadith
	for rows.Next() {
		h, err := scanHadith(rows)
		if err != nil {
			return nil, 0, r.mapDBError(err, "scan_hadith")
		}
		hadiths = append(hadiths, *h)
	}
	return hadiths, total, nil
}

// UpdateStatus moves a hadith through its moderation lifecycle
func (r *hadithRepository) UpdateStatus(ctx context.Context, id string, status models.HadithStatus) error {
	query := `
		UPDATE hadiths
		SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id
	`
	var updatedID string
	if err := r.pool.QueryRow(ctx, query, id, string(status)).Scan(&updatedID); err != nil {
		return r.mapDBError(err, "update_hadith_status")
	}
	return nil
}

// ListByStatus fetches up to limit hadiths with the given status
func (r *hadithRepository) ListByStatus(ctx context.Context, status models.HadithStatus, limit int) ([]models.Hadith, error) {
	query := `SELECT ` + hadithColumns + ` FROM hadiths WHERE status = $1 LIMIT $2`
	rows, err := r.pool.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, r.mapDBError(err, "list_hadiths_by_status")
	}
	defer rows.Close()

	var hadiths []models.Hadith
	for rows.Next() {
		h, err := scanHadith(rows)
		if err != nil {
			return nil, r.mapDBError(err, "scan_hadith")
		}
		hadiths = append(hadiths, *h)
	}
	return hadiths, nil
}

// ListAny fetches up to limit hadiths with no status filter
func (r *hadithRepository) ListAny(ctx context.Context, limit int) ([]models.Hadith, error) {
	query := `SELECT ` + hadithColumns + ` FROM hadiths LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, r.mapDBError(err, "list_hadiths_any")
	}
	defer rows.Close()

	var hadiths []models.Hadith
	for rows.Next() {
		h, err := scanHadith(rows)
		if err != nil {
			return nil, r.mapDBError(err, "scan_hadith")
		}
		hadiths = append(hadiths, *h)
	}
	return hadiths, nil
}

// UpsertAll inserts hadiths with fixed ids, ignoring rows that already
// exist. Used by the self-healing seed; must be safe under concurrent calls.
func (r *hadithRepository) UpsertAll(ctx context.Context, hadiths []models.Hadith) error {
	return r.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO hadiths (id, book_id, category_id, arabic_text, bangla_text, english_text,
				narrator, grade, reference, explanation, difficulty, status,
				is_featured, is_daily_special, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, CURRENT_TIMESTAMP)
			ON CONFLICT (id) DO NOTHING
		`
		for _, h := range hadiths {
			_, err := tx.Exec(ctx, query,
				h.ID, h.BookID, h.CategoryID, h.ArabicText, h.BanglaText, h.EnglishText,
				h.Narrator, string(h.Grade), h.Reference, h.Explanation, h.Difficulty, string(h.Status),
				h.IsFeatured, h.IsDailySpecial,
			)
			if err != nil {
				return r.mapDBError(err, "upsert_hadith")
			}
		}
		return nil
	})
}

// IncrementViewCount bumps the view counter
func (r *hadithRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.incrementCounter(ctx, id, "view_count")
}

// IncrementLikeCount bumps the like counter
func (r *hadithRepository) IncrementLikeCount(ctx context.Context, id string) error {
	return r.incrementCounter(ctx, id, "like_count")
}

// IncrementShareCount bumps the share counter
func (r *hadithRepository) IncrementShareCount(ctx context.Context, id string) error {
	return r.incrementCounter(ctx, id, "share_count")
}

func (r *hadithRepository) incrementCounter(ctx context.Context, id, column string) error {
	// column comes from a fixed set above, never from input
	query := fmt.Sprintf(`
		UPDATE hadiths
		SET %s = %s + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id
	`, column, column)

	var updatedID string
	if err := r.pool.QueryRow(ctx, query, id).Scan(&updatedID); err != nil {
		return r.mapDBError(err, "increment_"+column)
	}
	return nil
}

// UpdateWeeklyScore stores the recalculated engagement score
func (r *hadithRepository) UpdateWeeklyScore(ctx context.Context, id string, score int) error {
	query := `
		UPDATE hadiths
		SET weekly_score = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id
	`
	var updatedID string
	if err := r.pool.QueryRow(ctx, query, id, score).Scan(&updatedID); err != nil {
		return r.mapDBError(err, "update_weekly_score")
	}
	return nil
}

// GetTrending retrieves the top hadiths by weekly engagement score
func (r *hadithRepository) GetTrending(ctx context.Context, limit int) ([]*models.TrendingHadith, error) {
	query := `
		SELECT id, bangla_text, reference, weekly_score
		FROM hadiths
		WHERE status = 'verified'
		ORDER BY weekly_score DESC, updated_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, r.mapDBError(err, "get_trending_hadiths")
	}
	defer rows.Close()

	var results []*models.TrendingHadith
	rank := 1
	for rows.Next() {
		var t models.TrendingHadith
		if err := rows.Scan(&t.HadithID, &t.BanglaText, &t.Reference, &t.WeeklyScore); err != nil {
			return nil, r.mapDBError(err, "scan_trending_hadith")
		}
		t.Rank = rank
		results = append(results, &t)
		rank++
	}
	return results, nil
}

// Search performs a full-text search over the translation texts
func (r *hadithRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.HadithSearchResult, int, error) {
	searchQuery := strings.TrimSpace(query)
	if searchQuery == "" {
		return []*models.HadithSearchResult{}, 0, nil
	}

	countSQL := `
		SELECT COUNT(*)
		FROM hadiths
		WHERE status = 'verified'
		  AND search_vector @@ websearch_to_tsquery('simple', $1)
	`
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, searchQuery).Scan(&total); err != nil {
		return nil, 0, r.mapDBError(err, "count_search_results")
	}
	if total == 0 {
		return []*models.HadithSearchResult{}, 0, nil
	}

	searchSQL := `
		SELECT ` + hadithColumns + `,
			ts_rank_cd(search_vector, websearch_to_tsquery('simple', $1)) AS relevance_score
		FROM hadiths
		WHERE status = 'verified'
		  AND search_vector @@ websearch_to_tsquery('simple', $1)
		ORDER BY relevance_score DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, searchSQL, searchQuery, limit, offset)
	if err != nil {
		return nil, 0, r.mapDBError(err, "search_hadiths")
	}
	defer rows.Close()

	var results []*models.HadithSearchResult
	for rows.Next() {
		h := models.Hadith{}
		var gradeStr, statusStr string
		var relevanceScore float64
		if err := rows.Scan(
			&h.ID, &h.BookID, &h.CategoryID, &h.ArabicText, &h.BanglaText, &h.EnglishText,
			&h.Narrator, &gradeStr, &h.Reference, &h.Explanation, &h.Difficulty, &statusStr,
			&h.ViewCount, &h.LikeCount, &h.ShareCount, &h.WeeklyScore,
			&h.IsFeatured, &h.IsDailySpecial, &h.CreatedAt, &h.UpdatedAt,
			&relevanceScore,
		); err != nil {
			return nil, 0, r.mapDBError(err, "scan_search_result")
		}
		h.Grade = models.HadithGrade(gradeStr)
		h.Status = models.HadithStatus(statusStr)
		results = append(results, &models.HadithSearchResult{
			Hadith:         h,
			RelevanceScore: relevanceScore,
		})
	}
	return results, total, nil
}

// WithTransaction executes a function within a database transaction
func (r *hadithRepository) WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return r.mapDBError(err, "begin_transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// mapDBError maps database errors to application errors
func (r *hadithRepository) mapDBError(err error, operation string) error {
	if err == pgx.ErrNoRows {
		return fmt.Errorf("%s: %w", operation, models.ErrHadithNotFound)
	}

	if pgErr, ok := err.(*pgconn.PgError); ok {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate hadith entry: %w", err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("invalid book or category reference: %w", err)
		case "22P02": // invalid_text_representation
			return fmt.Errorf("invalid hadith field value: %w", err)
		}
	}

	return fmt.Errorf("database error during %s: %w", operation, err)
}
