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

// ContributionRepository handles user-submitted hadith persistence
type ContributionRepository interface {
	Create(ctx context.Context, contrib *models.Contribution) error
	GetByID(ctx context.Context, id string) (*models.Contribution, error)
	ListByStatus(ctx context.Context, status models.ContributionStatus, limit, offset int) ([]models.Contribution, int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Contribution, int, error)
	MarkReviewed(ctx context.Context, id string, status models.ContributionStatus, reviewerID, note, hadithID string) error
}

type contributionRepository struct {
	pool *pgxpool.Pool
}

// NewContributionRepository creates a new PostgreSQL contribution repository
func NewContributionRepository(pool *pgxpool.Pool) ContributionRepository {
	return &contributionRepository{pool: pool}
}

// Create inserts a pending contribution
func (r *contributionRepository) Create(ctx context.Context, contrib *models.Contribution) error {
	query := `
		INSERT INTO contributions (id, user_id, book_id, category_id, arabic_text, bangla_text,
			english_text, narrator, grade, reference, explanation, difficulty, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at
	`
	s := contrib.Submission
	err := r.pool.QueryRow(ctx, query,
		contrib.ID, contrib.UserID, s.BookID, s.CategoryID, s.ArabicText, s.BanglaText,
		s.EnglishText, s.Narrator, s.Grade, s.Reference, s.Explanation, s.Difficulty,
		string(contrib.Status), contrib.CreatedAt,
	).Scan(&contrib.CreatedAt)
	if err != nil {
		return r.mapDBError(err, "create_contribution")
	}
	return nil
}

const contributionColumns = `c.id, c.user_id, u.username, c.book_id, c.category_id,
	c.arabic_text, c.bangla_text, c.english_text, c.narrator, c.grade, c.reference,
	c.explanation, c.difficulty, c.status, c.review_note, c.reviewed_by, c.hadith_id,
	c.created_at, c.reviewed_at`

func scanContribution(row pgx.Row) (*models.Contribution, error) {
	c := &models.Contribution{}
	var statusStr string
	var reviewNote, reviewedBy, hadithID *string
	var reviewedAt *time.Time
	err := row.Scan(
		&c.ID, &c.UserID, &c.Username, &c.Submission.BookID, &c.Submission.CategoryID,
		&c.Submission.ArabicText, &c.Submission.BanglaText, &c.Submission.EnglishText,
		&c.Submission.Narrator, &c.Submission.Grade, &c.Submission.Reference,
		&c.Submission.Explanation, &c.Submission.Difficulty, &statusStr,
		&reviewNote, &reviewedBy, &hadithID, &c.CreatedAt, &reviewedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = models.ContributionStatus(statusStr)
	if reviewNote != nil {
		c.ReviewNote = *reviewNote
	}
	if reviewedBy != nil {
		c.ReviewedBy = *reviewedBy
	}
	if hadithID != nil {
		c.HadithID = *hadithID
	}
	c.ReviewedAt = reviewedAt
	return c, nil
}

// GetByID retrieves a contribution with the submitter's username
func (r *contributionRepository) GetByID(ctx context.Context, id string) (*models.Contribution, error) {
	query := `
		SELECT ` + contributionColumns + `
		FROM contributions c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.id = $1
	`
	c, err := scanContribution(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.mapDBError(err, "get_contribution")
	}
	return c, nil
}

// ListByStatus pages the moderation queue
func (r *contributionRepository) ListByStatus(ctx context.Context, status models.ContributionStatus, limit, offset int) ([]models.Contribution, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM contributions WHERE status = $1`
	if err := r.pool.QueryRow(ctx, countQuery, string(status)).Scan(&total); err != nil {
		return nil, 0, r.mapDBError(err, "count_contributions")
	}

	query := `
		SELECT ` + contributionColumns + `
		FROM contributions c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.status = $1
		ORDER BY c.created_at
		LIMIT $2 OFFSET $3
	`
	return r.listPage(ctx, query, total, string(status), limit, offset)
}

// ListByUser pages a user's own submissions
func (r *contributionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Contribution, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM contributions WHERE user_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, r.mapDBError(err, "count_contributions")
	}

	query := `
		SELECT ` + contributionColumns + `
		FROM contributions c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.listPage(ctx, query, total, userID, limit, offset)
}

func (r *contributionRepository) listPage(ctx context.Context, query string, total int, key string, limit, offset int) ([]models.Contribution, int, error) {
	rows, err := r.pool.Query(ctx, query, key, limit, offset)
	if err != nil {
		return nil, 0, r.mapDBError(err, "list_contributions")
	}
	defer rows.Close()

	var contributions []models.Contribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, 0, r.mapDBError(err, "scan_contribution")
		}
		contributions = append(contributions, *c)
	}
	return contributions, total, nil
}

// MarkReviewed finalizes a pending contribution exactly once. The WHERE
// clause on status makes a second review a no-op that surfaces as
// ErrAlreadyReviewed.
func (r *contributionRepository) MarkReviewed(ctx context.Context, id string, status models.ContributionStatus, reviewerID, note, hadithID string) error {
	query := `
		UPDATE contributions
		SET status = $2, reviewed_by = $3, review_note = $4, hadith_id = NULLIF($5, ''),
			reviewed_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := r.pool.Exec(ctx, query, id, string(status), reviewerID, note, hadithID)
	if err != nil {
		return r.mapDBError(err, "mark_reviewed")
	}
	if tag.RowsAffected() == 0 {
		// Either missing or already reviewed; disambiguate for the caller
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("mark_reviewed: %w", models.ErrAlreadyReviewed)
	}
	return nil
}

// mapDBError maps database errors to application errors
func (r *contributionRepository) mapDBError(err error, operation string) error {
	if err == pgx.ErrNoRows {
		return fmt.Errorf("%s: %w", operation, models.ErrContributionNotFound)
	}

	if pgErr, ok := err.(*pgconn.PgError); ok {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: invalid reference: %w", operation, err)
		case "22P02": // invalid_text_representation
			return fmt.Errorf("%s: invalid contribution status: %w", operation, err)
		}
	}

	return fmt.Errorf("database error during %s: %w", operation, err)
}
