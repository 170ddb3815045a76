package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amarhadis/pkg/models"
)

func achievementDef(id string, points int, criteria ...models.Criterion) models.Achievement {
	return models.Achievement{
		ID:       id,
		Name:     id,
		Criteria: criteria,
		Points:   points,
		IsActive: true,
	}
}

func readCriterion(threshold int) models.Criterion {
	return models.Criterion{Kind: models.CriterionHadithRead, Threshold: threshold}
}

func streakCriterion(threshold int) models.Criterion {
	return models.Criterion{Kind: models.CriterionStreakDays, Threshold: threshold}
}

func favoritesCriterion(threshold int) models.Criterion {
	return models.Criterion{Kind: models.CriterionFavorites, Threshold: threshold}
}

func TestEvaluateUnlocksOnAnyCriterion(t *testing.T) {
	// OR semantics: the streak criterion alone satisfies the definition
	achRepo := newFakeAchievementRepo(
		achievementDef("week-streak", 50, readCriterion(100), streakCriterion(7)),
	)
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 5, CurrentStreak: 7, Level: 1})
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())

	fresh, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "week-streak", fresh[0].ID)
	assert.Len(t, achRepo.unlocks["u1"], 1)
}

func TestEvaluateThresholdBoundary(t *testing.T) {
	achRepo := newFakeAchievementRepo(achievementDef("first-ten", 20, readCriterion(10)))
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 9, Level: 1})
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())

	fresh, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, fresh)

	// Exactly at the threshold counts
	userRepo.stats["u1"].HadithRead = 10
	fresh, err = svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "first-ten", fresh[0].ID)
}

func TestEvaluateSkipsAlreadyUnlocked(t *testing.T) {
	achRepo := newFakeAchievementRepo(achievementDef("first-ten", 20, readCriterion(10)))
	achRepo.unlocks["u1"] = []models.UserAchievement{
		{ID: "ua1", UserID: "u1", AchievementID: "first-ten", EarnedAt: time.Now()},
	}
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 50, Level: 1})
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())

	fresh, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, fresh)
	assert.Len(t, achRepo.unlocks["u1"], 1)
}

func TestEvaluateFailsClosedOnLoadErrors(t *testing.T) {
	def := achievementDef("first-ten", 20, readCriterion(10))
	stats := &models.UserStats{UserID: "u1", HadithRead: 50, Level: 1}
	boom := errors.New("connection refused")

	achRepo := newFakeAchievementRepo(def)
	userRepo := newFakeUserRepo(stats)
	userRepo.getStatsErr = boom
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())
	_, err := svc.Evaluate(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)

	achRepo = newFakeAchievementRepo(def)
	achRepo.listActiveErr = boom
	svc = NewAchievementService(achRepo, newFakeUserRepo(stats), newFakeInteractionRepo())
	_, err = svc.Evaluate(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)

	achRepo = newFakeAchievementRepo(def)
	achRepo.listUnlockedErr = boom
	svc = NewAchievementService(achRepo, newFakeUserRepo(stats), newFakeInteractionRepo())
	_, err = svc.Evaluate(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
}

func TestEvaluateFavoritesCountedLazily(t *testing.T) {
	// No favorites criterion anywhere: the live count is never taken
	achRepo := newFakeAchievementRepo(achievementDef("first-ten", 20, readCriterion(10)))
	interactionRepo := newFakeInteractionRepo()
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 50, Level: 1})
	svc := NewAchievementService(achRepo, userRepo, interactionRepo)

	_, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, interactionRepo.favoriteCalls)
}

func TestEvaluateFavoritesSkippedWhenAnotherCriterionMatches(t *testing.T) {
	// Favorites listed first, but the read threshold already unlocks it
	achRepo := newFakeAchievementRepo(
		achievementDef("either", 10, favoritesCriterion(1), readCriterion(10)),
	)
	interactionRepo := newFakeInteractionRepo()
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 50, Level: 1})
	svc := NewAchievementService(achRepo, userRepo, interactionRepo)

	fresh, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Zero(t, interactionRepo.favoriteCalls)
}

func TestEvaluateFavoritesCountedOncePerPass(t *testing.T) {
	achRepo := newFakeAchievementRepo(
		achievementDef("collector", 10, favoritesCriterion(5)),
		achievementDef("curator", 30, favoritesCriterion(20)),
	)
	interactionRepo := newFakeInteractionRepo()
	interactionRepo.favorites["u1"] = 6
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", Level: 1})
	svc := NewAchievementService(achRepo, userRepo, interactionRepo)

	fresh, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "collector", fresh[0].ID)
	assert.Equal(t, 1, interactionRepo.favoriteCalls)
}

func TestEvaluateFavoritesCountErrorAborts(t *testing.T) {
	achRepo := newFakeAchievementRepo(achievementDef("collector", 10, favoritesCriterion(5)))
	interactionRepo := newFakeInteractionRepo()
	interactionRepo.countFavErr = errors.New("connection refused")
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", Level: 1})
	svc := NewAchievementService(achRepo, userRepo, interactionRepo)

	_, err := svc.Evaluate(context.Background(), "u1")
	assert.Error(t, err)
	assert.Empty(t, achRepo.unlocks["u1"])
}

func TestEvaluateDuplicateUnlockRaceIsSilent(t *testing.T) {
	// Another evaluation won the insert race; this pass reports nothing
	// and awards nothing
	achRepo := newFakeAchievementRepo(achievementDef("first-ten", 20, readCriterion(10)))
	achRepo.insertErr = models.ErrDuplicateUnlock
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 50, Points: 0, Level: 1})
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())

	fresh, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, fresh)
	assert.Zero(t, userRepo.stats["u1"].Points)
}

func TestEvaluateUnlockWriteFailureSkipsDefinition(t *testing.T) {
	achRepo := newFakeAchievementRepo(achievementDef("first-ten", 20, readCriterion(10)))
	achRepo.insertErr = errors.New("connection refused")
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 50, Level: 1})
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())

	fresh, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, fresh)
	assert.Zero(t, userRepo.stats["u1"].Points)
}

func TestEvaluateAwardsPointsAndLevels(t *testing.T) {
	achRepo := newFakeAchievementRepo(achievementDef("century", 120, readCriterion(100)))
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 100, Points: 0, Level: 1})
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())

	fresh, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, 120, userRepo.stats["u1"].Points)
	// 120 points crosses the 100-point rung
	assert.Equal(t, []int{2}, userRepo.levelUpdates)
	assert.Equal(t, 2, userRepo.stats["u1"].Level)
}

func TestEvaluatePointAwardFailureKeepsUnlock(t *testing.T) {
	achRepo := newFakeAchievementRepo(achievementDef("century", 120, readCriterion(100)))
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 100, Level: 1})
	userRepo.addPointsErr = errors.New("connection refused")
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())

	fresh, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Len(t, achRepo.unlocks["u1"], 1)
}

func TestListForUser(t *testing.T) {
	earned := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	achRepo := newFakeAchievementRepo(
		achievementDef("first-ten", 20, readCriterion(10)),
		achievementDef("century", 120, readCriterion(100)),
	)
	achRepo.unlocks["u1"] = []models.UserAchievement{
		{ID: "ua1", UserID: "u1", AchievementID: "first-ten", EarnedAt: earned},
	}
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 25, Level: 1})
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())

	statuses, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.True(t, statuses[0].Unlocked)
	require.NotNil(t, statuses[0].EarnedAt)
	assert.Equal(t, earned, *statuses[0].EarnedAt)
	assert.Nil(t, statuses[0].Progress)

	assert.False(t, statuses[1].Unlocked)
	require.NotNil(t, statuses[1].Progress)
	assert.Equal(t, 25, statuses[1].Progress.Current)
	assert.Equal(t, 100, statuses[1].Progress.Target)
	assert.Equal(t, 25, statuses[1].Progress.Percent)
}

func TestProgressPriorityOrder(t *testing.T) {
	// hadith_read is reported even when listed after streak_days
	achRepo := newFakeAchievementRepo(
		achievementDef("mixed", 10, streakCriterion(5), readCriterion(20)),
	)
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 4, CurrentStreak: 5, Level: 1})
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())

	progress, err := svc.Progress(context.Background(), "u1", "mixed")
	require.NoError(t, err)
	assert.Equal(t, 4, progress.Current)
	assert.Equal(t, 20, progress.Target)
	assert.Equal(t, 20, progress.Percent)
}

func TestProgressPercentClamps(t *testing.T) {
	achRepo := newFakeAchievementRepo(achievementDef("first-ten", 20, readCriterion(10)))
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", HadithRead: 37, Level: 1})
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())

	progress, err := svc.Progress(context.Background(), "u1", "first-ten")
	require.NoError(t, err)
	assert.Equal(t, 37, progress.Current)
	assert.Equal(t, 10, progress.Target)
	assert.Equal(t, 100, progress.Percent)
}

func TestProgressFavoritesOnlyIsDegenerate(t *testing.T) {
	// Favorites never drive the progress bar
	achRepo := newFakeAchievementRepo(achievementDef("collector", 10, favoritesCriterion(5)))
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", Level: 1})
	svc := NewAchievementService(achRepo, userRepo, newFakeInteractionRepo())

	progress, err := svc.Progress(context.Background(), "u1", "collector")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Current)
	assert.Equal(t, 100, progress.Target)
	assert.Equal(t, 0, progress.Percent)
}

func TestProgressUnknownAchievement(t *testing.T) {
	svc := NewAchievementService(newFakeAchievementRepo(), newFakeUserRepo(), newFakeInteractionRepo())

	_, err := svc.Progress(context.Background(), "u1", "nope")
	assert.Error(t, err)
}

func TestUpsertDefinitionValidation(t *testing.T) {
	achRepo := newFakeAchievementRepo()
	svc := NewAchievementService(achRepo, newFakeUserRepo(), newFakeInteractionRepo())
	ctx := context.Background()

	err := svc.UpsertDefinition(ctx, &models.Achievement{Name: "no id", Criteria: []models.Criterion{readCriterion(1)}})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	err = svc.UpsertDefinition(ctx, &models.Achievement{ID: "a", Name: "a"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	err = svc.UpsertDefinition(ctx, &models.Achievement{
		ID: "a", Name: "a",
		Criteria: []models.Criterion{{Kind: "page_views", Threshold: 5}},
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	err = svc.UpsertDefinition(ctx, &models.Achievement{
		ID: "a", Name: "a",
		Criteria: []models.Criterion{{Kind: models.CriterionHadithRead, Threshold: 0}},
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	def := achievementDef("a", 10, readCriterion(5))
	require.NoError(t, svc.UpsertDefinition(ctx, &def))
	require.Len(t, achRepo.upserted, 1)
	assert.Equal(t, "a", achRepo.upserted[0].ID)
}

func TestLevelForPoints(t *testing.T) {
	assert.Equal(t, 1, LevelForPoints(-50).Level)
	assert.Equal(t, 1, LevelForPoints(0).Level)
	assert.Equal(t, 1, LevelForPoints(99).Level)
	assert.Equal(t, 2, LevelForPoints(100).Level)
	assert.Equal(t, 3, LevelForPoints(300).Level)
	assert.Equal(t, 6, LevelForPoints(3000).Level)
	// Points beyond the top rung stay at the top rung
	assert.Equal(t, 6, LevelForPoints(1_000_000).Level)
	assert.Equal(t, "Hafiz of Hadith", LevelForPoints(1_000_000).Title)
}
