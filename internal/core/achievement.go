// Package core - Achievement Evaluation Engine
// Evaluates unlock criteria against a user's cumulative stats. Loads
// fail closed (no stats, no unlocks); duplicate unlock races resolve
// silently in favor of the first writer.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"amarhadis/internal/repository"
	"amarhadis/pkg/logger"
	"amarhadis/pkg/models"
	"amarhadis/pkg/utils"
)

// AchievementService defines achievement operations
type AchievementService interface {
	// Evaluate checks every active definition against the user's
	// current stats and unlocks those newly satisfied. Returns the
	// definitions unlocked by this call only.
	Evaluate(ctx context.Context, userID string) ([]models.Achievement, error)

	// Catalog returns the active definitions with no viewer state
	Catalog(ctx context.Context) ([]models.Achievement, error)

	// ListForUser returns every active definition annotated with the
	// user's unlock state and progress
	ListForUser(ctx context.Context, userID string) ([]models.AchievementStatus, error)

	// ListUnlocked returns the user's earned achievements
	ListUnlocked(ctx context.Context, userID string) ([]models.UserAchievement, error)

	// Progress reports progress toward a single definition
	Progress(ctx context.Context, userID, achievementID string) (*models.AchievementProgress, error)

	// UpsertDefinition installs or updates a definition (admin)
	UpsertDefinition(ctx context.Context, def *models.Achievement) error
}

type achievementService struct {
	achievementRepo repository.AchievementRepository
	userRepo        repository.UserRepository
	interactionRepo repository.InteractionRepository
}

// NewAchievementService creates a new achievement service
func NewAchievementService(achievementRepo repository.AchievementRepository, userRepo repository.UserRepository, interactionRepo repository.InteractionRepository) AchievementService {
	return &achievementService{
		achievementRepo: achievementRepo,
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
	}
}

// Evaluate runs the unlock pass. Any load failure aborts the whole pass
// with an error; a failed read must never look like "nothing unlocked
// yet" to the caller.
func (s *achievementService) Evaluate(ctx context.Context, userID string) ([]models.Achievement, error) {
	stats, err := s.userRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	definitions, err := s.achievementRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement definitions: %w", err)
	}

	unlocked, err := s.achievementRepo.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlocked achievements: %w", err)
	}
	have := make(map[string]bool, len(unlocked))
	for _, ua := range unlocked {
		have[ua.AchievementID] = true
	}

	// Favorites are counted live; the stored stats row never carries
	// a favorites column
	favorites := -1

	var fresh []models.Achievement
	for _, def := range definitions {
		if have[def.ID] {
			continue
		}

		// Snapshot criteria first; the favorites count is only taken
		// when nothing else already satisfied the definition
		satisfied := false
		hasFavorites := false
		for _, c := range def.Criteria {
			if c.Kind == models.CriterionFavorites {
				hasFavorites = true
				continue
			}
			if statValue(stats, c.Kind, 0) >= c.Threshold {
				satisfied = true
				break
			}
		}
		if !satisfied && hasFavorites {
			if favorites < 0 {
				favorites, err = s.interactionRepo.CountFavoritesByUser(ctx, userID)
				if err != nil {
					return nil, fmt.Errorf("failed to count favorites: %w", err)
				}
			}
			for _, c := range def.Criteria {
				if c.Kind == models.CriterionFavorites && favorites >= c.Threshold {
					satisfied = true
					break
				}
			}
		}
		if !satisfied {
			continue
		}

		unlock := &models.UserAchievement{
			ID:            utils.GenerateUnlockID(),
			UserID:        userID,
			AchievementID: def.ID,
			EarnedAt:      time.Now(),
		}
		if err := s.achievementRepo.InsertUnlock(ctx, unlock); err != nil {
			if !errors.Is(err, models.ErrDuplicateUnlock) {
				logger.Errorf("failed to record unlock of %s for %s: %v", def.ID, userID, err)
			}
			// Either another evaluation got there first or the write
			// failed; this pass moves on and the next one retries
			continue
		}

		if def.Points > 0 {
			total, err := s.userRepo.AddPoints(ctx, userID, def.Points)
			if err != nil {
				logger.Errorf("failed to award %d points for %s to %s: %v", def.Points, def.ID, userID, err)
			} else if level := LevelForPoints(total).Level; level != stats.Level {
				if err := s.userRepo.UpdateLevel(ctx, userID, level); err != nil {
					logger.Errorf("failed to persist level %d for %s: %v", level, userID, err)
				} else {
					stats.Level = level
				}
			}
		}

		logger.Unlock(userID, def.ID, def.Points)
		fresh = append(fresh, def)
	}

	return fresh, nil
}

// statValue extracts the stat a criterion measures. favorites is passed
// separately because it is derived, not stored.
func statValue(stats *models.UserStats, kind models.CriterionKind, favorites int) int {
	switch kind {
	case models.CriterionHadithRead:
		return stats.HadithRead
	case models.CriterionStreakDays:
		return stats.CurrentStreak
	case models.CriterionContributions:
		return stats.Contributions
	case models.CriterionFavorites:
		return favorites
	default:
		return 0
	}
}

// Catalog returns the active definitions
func (s *achievementService) Catalog(ctx context.Context) ([]models.Achievement, error) {
	return s.achievementRepo.ListActive(ctx)
}

// ListForUser annotates every active definition with the viewer's state
func (s *achievementService) ListForUser(ctx context.Context, userID string) ([]models.AchievementStatus, error) {
	definitions, err := s.achievementRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement definitions: %w", err)
	}

	unlocked, err := s.achievementRepo.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlocked achievements: %w", err)
	}
	earnedAt := make(map[string]time.Time, len(unlocked))
	for _, ua := range unlocked {
		earnedAt[ua.AchievementID] = ua.EarnedAt
	}

	stats, err := s.userRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	out := make([]models.AchievementStatus, 0, len(definitions))
	for _, def := range definitions {
		status := models.AchievementStatus{Achievement: def}
		if t, ok := earnedAt[def.ID]; ok {
			status.Unlocked = true
			earned := t
			status.EarnedAt = &earned
		} else {
			status.Progress = progressOf(&def, stats)
		}
		out = append(out, status)
	}
	return out, nil
}

// ListUnlocked returns the user's earned achievements, newest first
func (s *achievementService) ListUnlocked(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	return s.achievementRepo.ListUnlocked(ctx, userID)
}

// Progress reports progress toward one definition
func (s *achievementService) Progress(ctx context.Context, userID, achievementID string) (*models.AchievementProgress, error) {
	def, err := s.achievementRepo.GetByID(ctx, achievementID)
	if err != nil {
		return nil, err
	}
	stats, err := s.userRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return progressOf(def, stats), nil
}

// progressOf picks the criterion to report against in a fixed priority
// order: reads, then streak, then contributions. Favorites never drive
// the progress bar. A definition with none of the reportable kinds gets
// the degenerate empty bar.
func progressOf(def *models.Achievement, stats *models.UserStats) *models.AchievementProgress {
	order := []models.CriterionKind{
		models.CriterionHadithRead,
		models.CriterionStreakDays,
		models.CriterionContributions,
	}
	for _, kind := range order {
		for _, c := range def.Criteria {
			if c.Kind != kind || c.Threshold <= 0 {
				continue
			}
			current := statValue(stats, kind, 0)
			percent := current * 100 / c.Threshold
			if percent > 100 {
				percent = 100
			}
			return &models.AchievementProgress{
				Current: current,
				Target:  c.Threshold,
				Percent: percent,
			}
		}
	}
	return &models.AchievementProgress{Current: 0, Target: 100, Percent: 0}
}

// UpsertDefinition installs or updates a definition
func (s *achievementService) UpsertDefinition(ctx context.Context, def *models.Achievement) error {
	if def.ID == "" || def.Name == "" {
		return models.ErrInvalidInput
	}
	if len(def.Criteria) == 0 {
		return fmt.Errorf("achievement needs at least one criterion: %w", models.ErrInvalidInput)
	}
	for _, c := range def.Criteria {
		switch c.Kind {
		case models.CriterionHadithRead, models.CriterionStreakDays,
			models.CriterionContributions, models.CriterionFavorites:
		default:
			return fmt.Errorf("unknown criterion kind %q: %w", c.Kind, models.ErrInvalidInput)
		}
		if c.Threshold <= 0 {
			return fmt.Errorf("criterion threshold must be positive: %w", models.ErrInvalidInput)
		}
	}
	return s.achievementRepo.UpsertDefinition(ctx, def)
}

// LevelForPoints returns the highest level whose minimum the points
// reach. Points below the first rung clamp to the first level.
func LevelForPoints(points int) models.LevelInfo {
	active := models.LevelTable[0]
	for _, info := range models.LevelTable {
		if points >= info.MinPoints {
			active = info
		}
	}
	return active
}
