package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"amarhadis/pkg/models"
)

// ScheduleRepository handles daily schedule persistence.
// The resolver only reads; writes come from hadisctl and the seed path.
type ScheduleRepository interface {
	GetByDate(ctx context.Context, dateKey string) (*models.DailySchedule, error)
	Upsert(ctx context.Context, schedule *models.DailySchedule) error
	EnsureExists(ctx context.Context, schedule *models.DailySchedule) error
	ListUpcoming(ctx context.Context, fromDate string, limit int) ([]models.DailySchedule, error)
}

type scheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new PostgreSQL schedule repository
func NewScheduleRepository(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepository{pool: pool}
}

// GetByDate retrieves the schedule row for a date key
func (r *scheduleRepository) GetByDate(ctx context.Context, dateKey string) (*models.DailySchedule, error) {
	query := `
		SELECT date_key, hadith_ids, theme, created_at
		FROM daily_schedules
		WHERE date_key = $1
	`
	schedule := &models.DailySchedule{}
	err := r.pool.QueryRow(ctx, query, dateKey).Scan(
		&schedule.DateKey,
		&schedule.HadithIDs,
		&schedule.Theme,
		&schedule.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("get_schedule: %w", models.ErrScheduleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("database error during get_schedule: %w", err)
	}
	return schedule, nil
}

// Upsert creates or replaces the schedule for a date
func (r *scheduleRepository) Upsert(ctx context.Context, schedule *models.DailySchedule) error {
	query := `
		INSERT INTO daily_schedules (date_key, hadith_ids, theme, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (date_key) DO UPDATE
		SET hadith_ids = EXCLUDED.hadith_ids, theme = EXCLUDED.theme
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		schedule.DateKey,
		schedule.HadithIDs,
		schedule.Theme,
	).Scan(&schedule.CreatedAt)
	if err != nil {
		return fmt.Errorf("database error during upsert_schedule: %w", err)
	}
	return nil
}

// EnsureExists inserts the schedule only when no row exists for the date.
// Concurrent callers racing on the same date are harmless; the losing
// insert is simply a no-op.
func (r *scheduleRepository) EnsureExists(ctx context.Context, schedule *models.DailySchedule) error {
	query := `
		INSERT INTO daily_schedules (date_key, hadith_ids, theme, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (date_key) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, schedule.DateKey, schedule.HadithIDs, schedule.Theme)
	if err != nil {
		return fmt.Errorf("database error during ensure_schedule: %w", err)
	}
	return nil
}

// ListUpcoming returns schedules from a date onward (for hadisctl)
func (r *scheduleRepository) ListUpcoming(ctx context.Context, fromDate string, limit int) ([]models.DailySchedule, error) {
	query := `
		SELECT date_key, hadith_ids, theme, created_at
		FROM daily_schedules
		WHERE date_key >= $1
		ORDER BY date_key
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, fromDate, limit)
	if err != nil {
		return nil, fmt.Errorf("database error during list_schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.DailySchedule
	for rows.Next() {
		var s models.DailySchedule
		if err := rows.Scan(&s.DateKey, &s.HadithIDs, &s.Theme, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("database error during scan_schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}
