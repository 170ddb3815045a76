// Package core - Reading Progress
// Records daily reads and keeps the streak bookkeeping honest: one
// counted read per (user, hadith, day), streaks advance only across
// consecutive calendar days.
package core

import (
	"context"
	"fmt"
	"time"

	"amarhadis/internal/repository"
	"amarhadis/pkg/logger"
	"amarhadis/pkg/models"
	"amarhadis/pkg/utils"
)

// PointsPerRead is the base reward for a counted read
const PointsPerRead = 10

// ReadingService records reads and maintains streaks
type ReadingService interface {
	// MarkRead records that a user read a hadith today. Re-reads of
	// the same hadith on the same day return the current stats with
	// AlreadyRead set and change nothing.
	MarkRead(ctx context.Context, userID, hadithID string) (*models.MarkReadResponse, error)

	// GetStats returns the user's cumulative stats
	GetStats(ctx context.Context, userID string) (*models.UserStats, error)
}

type readingService struct {
	userRepo        repository.UserRepository
	hadithRepo      repository.HadithRepository
	interactionRepo repository.InteractionRepository
	achievements    AchievementService
}

// NewReadingService creates a new reading progress service
func NewReadingService(userRepo repository.UserRepository, hadithRepo repository.HadithRepository, interactionRepo repository.InteractionRepository, achievements AchievementService) ReadingService {
	return &readingService{
		userRepo:        userRepo,
		hadithRepo:      hadithRepo,
		interactionRepo: interactionRepo,
		achievements:    achievements,
	}
}

// MarkRead processes a read: insert the event, advance stats and
// streak, bump the view counter, then run an unlock pass
func (s *readingService) MarkRead(ctx context.Context, userID, hadithID string) (*models.MarkReadResponse, error) {
	if _, err := s.hadithRepo.GetByID(ctx, hadithID); err != nil {
		return nil, err
	}

	today := utils.TodayKey()
	event := &models.ReadEvent{
		ID:       utils.GenerateID("read"),
		UserID:   userID,
		HadithID: hadithID,
		DateKey:  today,
	}
	inserted, err := s.interactionRepo.InsertReadEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to record read: %w", err)
	}

	if !inserted {
		stats, err := s.userRepo.GetStats(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load stats: %w", err)
		}
		return &models.MarkReadResponse{Stats: stats, AlreadyRead: true}, nil
	}

	stats, err := s.userRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	stats.HadithRead++
	stats.Points += PointsPerRead
	advanceStreak(stats, today)
	stats.Level = LevelForPoints(stats.Points).Level
	stats.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateStats(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to update stats: %w", err)
	}

	// View counter is cosmetic; a failed bump should not fail the read
	if err := s.hadithRepo.IncrementViewCount(ctx, hadithID); err != nil {
		logger.Warnf("failed to bump view count for %s: %v", hadithID, err)
	}

	newlyUnlocked, err := s.achievements.Evaluate(ctx, userID)
	if err != nil {
		// The read itself succeeded; unlocks will catch up on the
		// next evaluation
		logger.Errorf("achievement evaluation failed for %s: %v", userID, err)
		newlyUnlocked = nil
	}
	if len(newlyUnlocked) > 0 {
		// Unlock rewards landed after our stats write; re-read so the
		// response shows the final totals
		if fresh, err := s.userRepo.GetStats(ctx, userID); err == nil {
			stats = fresh
		}
	}

	return &models.MarkReadResponse{
		Stats:         stats,
		NewlyUnlocked: newlyUnlocked,
	}, nil
}

// advanceStreak updates streak counters for a read on dateKey.
// Same-day reads leave the streak alone, a read on the day after the
// last one extends it, anything else restarts at one.
func advanceStreak(stats *models.UserStats, dateKey string) {
	switch {
	case stats.LastReadDate == dateKey:
		// Second qualifying hadith today; streak already counted
	case utils.IsConsecutiveDay(stats.LastReadDate, dateKey):
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastReadDate = dateKey
}

// GetStats returns the user's cumulative stats
func (s *readingService) GetStats(ctx context.Context, userID string) (*models.UserStats, error) {
	return s.userRepo.GetStats(ctx, userID)
}
