package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"amarhadis/pkg/models"
)

// AchievementRepository handles achievement definitions and unlock rows.
// Criteria live in a child table; a definition without criteria rows can
// never unlock and is effectively dormant.
type AchievementRepository interface {
	ListActive(ctx context.Context) ([]models.Achievement, error)
	ListAll(ctx context.Context) ([]models.Achievement, error)
	GetByID(ctx context.Context, id string) (*models.Achievement, error)
	UpsertDefinition(ctx context.Context, def *models.Achievement) error

	ListUnlocked(ctx context.Context, userID string) ([]models.UserAchievement, error)
	InsertUnlock(ctx context.Context, unlock *models.UserAchievement) error
}

type achievementRepository struct {
	pool *pgxpool.Pool
}

// NewAchievementRepository creates a new PostgreSQL achievement repository
func NewAchievementRepository(pool *pgxpool.Pool) AchievementRepository {
	return &achievementRepository{pool: pool}
}

// ListActive loads active definitions with their criteria
func (r *achievementRepository) ListActive(ctx context.Context) ([]models.Achievement, error) {
	return r.list(ctx, true)
}

// ListAll loads every definition, active or not
func (r *achievementRepository) ListAll(ctx context.Context) ([]models.Achievement, error) {
	return r.list(ctx, false)
}

func (r *achievementRepository) list(ctx context.Context, activeOnly bool) ([]models.Achievement, error) {
	query := `
		SELECT id, name, name_bangla, description, icon, badge_color, points, is_active, created_at
		FROM achievements
	`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY points, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, r.mapDBError(err, "list_achievements")
	}
	defer rows.Close()

	var defs []models.Achievement
	index := make(map[string]int)
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(
			&a.ID, &a.Name, &a.NameBangla, &a.Description, &a.Icon, &a.BadgeColor,
			&a.Points, &a.IsActive, &a.CreatedAt,
		); err != nil {
			return nil, r.mapDBError(err, "scan_achievement")
		}
		index[a.ID] = len(defs)
		defs = append(defs, a)
	}
	rows.Close()

	if len(defs) == 0 {
		return defs, nil
	}

	critQuery := `
		SELECT achievement_id, kind, threshold
		FROM achievement_criteria
		ORDER BY achievement_id, kind
	`
	critRows, err := r.pool.Query(ctx, critQuery)
	if err != nil {
		return nil, r.mapDBError(err, "list_achievement_criteria")
	}
	defer critRows.Close()

	for critRows.Next() {
		var achievementID, kind string
		var threshold int
		if err := critRows.Scan(&achievementID, &kind, &threshold); err != nil {
			return nil, r.mapDBError(err, "scan_criterion")
		}
		if i, ok := index[achievementID]; ok {
			defs[i].Criteria = append(defs[i].Criteria, models.Criterion{
				Kind:      models.CriterionKind(kind),
				Threshold: threshold,
			})
		}
	}
	return defs, nil
}

// GetByID loads one definition with criteria
func (r *achievementRepository) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	query := `
		SELECT id, name, name_bangla, description, icon, badge_color, points, is_active, created_at
		FROM achievements
		WHERE id = $1
	`
	a := &models.Achievement{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.NameBangla, &a.Description, &a.Icon, &a.BadgeColor,
		&a.Points, &a.IsActive, &a.CreatedAt,
	)
	if err != nil {
		return nil, r.mapDBError(err, "get_achievement")
	}

	critQuery := `SELECT kind, threshold FROM achievement_criteria WHERE achievement_id = $1 ORDER BY kind`
	rows, err := r.pool.Query(ctx, critQuery, id)
	if err != nil {
		return nil, r.mapDBError(err, "get_achievement_criteria")
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var threshold int
		if err := rows.Scan(&kind, &threshold); err != nil {
			return nil, r.mapDBError(err, "scan_criterion")
		}
		a.Criteria = append(a.Criteria, models.Criterion{
			Kind:      models.CriterionKind(kind),
			Threshold: threshold,
		})
	}
	return a, nil
}

// UpsertDefinition seeds or updates a definition plus its criteria
func (r *achievementRepository) UpsertDefinition(ctx context.Context, def *models.Achievement) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return r.mapDBError(err, "begin_transaction")
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO achievements (id, name, name_bangla, description, icon, badge_color, points, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, name_bangla = EXCLUDED.name_bangla,
			description = EXCLUDED.description, icon = EXCLUDED.icon,
			badge_color = EXCLUDED.badge_color, points = EXCLUDED.points,
			is_active = EXCLUDED.is_active
	`
	_, err = tx.Exec(ctx, query,
		def.ID, def.Name, def.NameBangla, def.Description, def.Icon, def.BadgeColor,
		def.Points, def.IsActive,
	)
	if err != nil {
		return r.mapDBError(err, "upsert_achievement")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM achievement_criteria WHERE achievement_id = $1`, def.ID); err != nil {
		return r.mapDBError(err, "clear_criteria")
	}
	for _, c := range def.Criteria {
		_, err := tx.Exec(ctx,
			`INSERT INTO achievement_criteria (achievement_id, kind, threshold) VALUES ($1, $2, $3)`,
			def.ID, string(c.Kind), c.Threshold,
		)
		if err != nil {
			return r.mapDBError(err, "insert_criterion")
		}
	}

	return tx.Commit(ctx)
}

// ListUnlocked returns the user's unlock rows
func (r *achievementRepository) ListUnlocked(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	query := `
		SELECT id, user_id, achievement_id, earned_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY earned_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, r.mapDBError(err, "list_unlocked")
	}
	defer rows.Close()

	var unlocks []models.UserAchievement
	for rows.Next() {
		var u models.UserAchievement
		if err := rows.Scan(&u.ID, &u.UserID, &u.AchievementID, &u.EarnedAt); err != nil {
			return nil, r.mapDBError(err, "scan_unlock")
		}
		unlocks = append(unlocks, u)
	}
	return unlocks, nil
}

// InsertUnlock records an unlock exactly once per (user, achievement).
// A racing duplicate surfaces as models.ErrDuplicateUnlock.
func (r *achievementRepository) InsertUnlock(ctx context.Context, unlock *models.UserAchievement) error {
	query := `
		INSERT INTO user_achievements (id, user_id, achievement_id, earned_at)
		VALUES ($1, $2, $3, $4)
		RETURNING earned_at
	`
	err := r.pool.QueryRow(ctx, query,
		unlock.ID, unlock.UserID, unlock.AchievementID, unlock.EarnedAt,
	).Scan(&unlock.EarnedAt)
	if err != nil {
		return r.mapDBError(err, "insert_unlock")
	}
	return nil
}

// mapDBError maps database errors to application errors
func (r *achievementRepository) mapDBError(err error, operation string) error {
	if err == pgx.ErrNoRows {
		return fmt.Errorf("%s: %w", operation, models.ErrNotFound)
	}

	if pgErr, ok := err.(*pgconn.PgError); ok {
		switch pgErr.Code {
		case "23505": // unique_violation on (user_id, achievement_id)
			return fmt.Errorf("%s: %w", operation, models.ErrDuplicateUnlock)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: invalid achievement reference: %w", operation, err)
		}
	}

	return fmt.Errorf("database error during %s: %w", operation, err)
}
