package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amarhadis/pkg/models"
	"amarhadis/pkg/utils"
)

func newReadingFixture() (*fakeUserRepo, *fakeHadithRepo, *fakeInteractionRepo, *stubAchievements, ReadingService) {
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", Level: 1})
	hadithRepo := newFakeHadithRepo(verifiedHadith("h1"), verifiedHadith("h2"))
	interactionRepo := newFakeInteractionRepo()
	achievements := &stubAchievements{}
	svc := NewReadingService(userRepo, hadithRepo, interactionRepo, achievements)
	return userRepo, hadithRepo, interactionRepo, achievements, svc
}

func TestMarkReadUnknownHadith(t *testing.T) {
	_, _, _, _, svc := newReadingFixture()

	_, err := svc.MarkRead(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, models.ErrHadithNotFound)
}

func TestMarkReadFirstRead(t *testing.T) {
	userRepo, hadithRepo, _, _, svc := newReadingFixture()

	resp, err := svc.MarkRead(context.Background(), "u1", "h1")
	require.NoError(t, err)
	assert.False(t, resp.AlreadyRead)
	assert.Equal(t, 1, resp.Stats.HadithRead)
	assert.Equal(t, PointsPerRead, resp.Stats.Points)
	assert.Equal(t, 1, resp.Stats.CurrentStreak)
	assert.Equal(t, 1, resp.Stats.LongestStreak)
	assert.Equal(t, utils.TodayKey(), resp.Stats.LastReadDate)

	// Persisted, not just returned
	stored := userRepo.stats["u1"]
	assert.Equal(t, 1, stored.HadithRead)
	assert.Equal(t, PointsPerRead, stored.Points)

	assert.Equal(t, 1, hadithRepo.viewCounts["h1"])
}

func TestMarkReadSameHadithSameDayIsIdempotent(t *testing.T) {
	userRepo, _, _, achievements, svc := newReadingFixture()

	_, err := svc.MarkRead(context.Background(), "u1", "h1")
	require.NoError(t, err)
	evalsAfterFirst := achievements.evalCalls

	resp, err := svc.MarkRead(context.Background(), "u1", "h1")
	require.NoError(t, err)
	assert.True(t, resp.AlreadyRead)
	assert.Empty(t, resp.NewlyUnlocked)
	assert.Equal(t, 1, resp.Stats.HadithRead)
	assert.Equal(t, PointsPerRead, userRepo.stats["u1"].Points)
	// A repeat read never triggers another unlock pass
	assert.Equal(t, evalsAfterFirst, achievements.evalCalls)
}

func TestMarkReadSecondHadithSameDay(t *testing.T) {
	_, _, _, _, svc := newReadingFixture()

	_, err := svc.MarkRead(context.Background(), "u1", "h1")
	require.NoError(t, err)

	resp, err := svc.MarkRead(context.Background(), "u1", "h2")
	require.NoError(t, err)
	assert.False(t, resp.AlreadyRead)
	assert.Equal(t, 2, resp.Stats.HadithRead)
	assert.Equal(t, 2*PointsPerRead, resp.Stats.Points)
	// Streak counts days, not reads
	assert.Equal(t, 1, resp.Stats.CurrentStreak)
}

func TestMarkReadInsertFailure(t *testing.T) {
	_, _, interactionRepo, _, svc := newReadingFixture()
	interactionRepo.insertReadErr = errors.New("connection refused")

	_, err := svc.MarkRead(context.Background(), "u1", "h1")
	assert.Error(t, err)
}

func TestMarkReadStatsWriteFailure(t *testing.T) {
	userRepo, _, _, _, svc := newReadingFixture()
	userRepo.updateStatsErr = errors.New("connection refused")

	_, err := svc.MarkRead(context.Background(), "u1", "h1")
	assert.Error(t, err)
}

func TestMarkReadSurvivesViewCountFailure(t *testing.T) {
	_, hadithRepo, _, _, svc := newReadingFixture()
	hadithRepo.incViewErr = errors.New("connection refused")

	resp, err := svc.MarkRead(context.Background(), "u1", "h1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Stats.HadithRead)
}

func TestMarkReadSurvivesEvaluationFailure(t *testing.T) {
	// The read is durable even when the unlock pass is not
	userRepo, _, _, achievements, svc := newReadingFixture()
	achievements.evalErr = errors.New("connection refused")

	resp, err := svc.MarkRead(context.Background(), "u1", "h1")
	require.NoError(t, err)
	assert.Nil(t, resp.NewlyUnlocked)
	assert.Equal(t, 1, userRepo.stats["u1"].HadithRead)
}

func TestMarkReadRefreshesStatsAfterUnlock(t *testing.T) {
	userRepo, _, _, achievements, svc := newReadingFixture()
	unlocked := achievementDef("first-read", 25, readCriterion(1))
	achievements.evalResult = []models.Achievement{unlocked}
	achievements.onEvaluate = func() {
		// Unlock rewards land after the read's own stats write
		_, err := userRepo.AddPoints(context.Background(), "u1", 25)
		require.NoError(t, err)
	}

	resp, err := svc.MarkRead(context.Background(), "u1", "h1")
	require.NoError(t, err)
	require.Len(t, resp.NewlyUnlocked, 1)
	assert.Equal(t, "first-read", resp.NewlyUnlocked[0].ID)
	assert.Equal(t, PointsPerRead+25, resp.Stats.Points)
}

func TestMarkReadLevelsUp(t *testing.T) {
	userRepo, _, _, _, svc := newReadingFixture()
	userRepo.stats["u1"].Points = 95

	resp, err := svc.MarkRead(context.Background(), "u1", "h1")
	require.NoError(t, err)
	assert.Equal(t, 105, resp.Stats.Points)
	assert.Equal(t, 2, resp.Stats.Level)
}

func TestAdvanceStreak(t *testing.T) {
	t.Run("first read ever", func(t *testing.T) {
		stats := &models.UserStats{}
		advanceStreak(stats, "2026-09-01")
		assert.Equal(t, 1, stats.CurrentStreak)
		assert.Equal(t, 1, stats.LongestStreak)
		assert.Equal(t, "2026-09-01", stats.LastReadDate)
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		stats := &models.UserStats{CurrentStreak: 4, LongestStreak: 4, LastReadDate: "2026-09-01"}
		advanceStreak(stats, "2026-09-01")
		assert.Equal(t, 4, stats.CurrentStreak)
	})

	t.Run("consecutive day extends", func(t *testing.T) {
		stats := &models.UserStats{CurrentStreak: 4, LongestStreak: 4, LastReadDate: "2026-08-31"}
		advanceStreak(stats, "2026-09-01")
		assert.Equal(t, 5, stats.CurrentStreak)
		assert.Equal(t, 5, stats.LongestStreak)
	})

	t.Run("month boundary is still consecutive", func(t *testing.T) {
		stats := &models.UserStats{CurrentStreak: 1, LongestStreak: 1, LastReadDate: "2026-02-28"}
		advanceStreak(stats, "2026-03-01")
		assert.Equal(t, 2, stats.CurrentStreak)
	})

	t.Run("gap resets to one", func(t *testing.T) {
		stats := &models.UserStats{CurrentStreak: 9, LongestStreak: 9, LastReadDate: "2026-08-25"}
		advanceStreak(stats, "2026-09-01")
		assert.Equal(t, 1, stats.CurrentStreak)
		// The longest streak is a high-water mark
		assert.Equal(t, 9, stats.LongestStreak)
	})
}

func TestGetStats(t *testing.T) {
	userRepo, _, _, _, svc := newReadingFixture()
	userRepo.stats["u1"].HadithRead = 42

	stats, err := svc.GetStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 42, stats.HadithRead)

	userRepo.getStatsErr = errors.New("connection refused")
	_, err = svc.GetStats(context.Background(), "u1")
	assert.Error(t, err)
}
