package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amarhadis/pkg/models"
)

func newInteractionFixture(defs ...models.Achievement) (*fakeInteractionRepo, *fakeAchievementRepo, InteractionService) {
	interactionRepo := newFakeInteractionRepo()
	hadithRepo := newFakeHadithRepo(verifiedHadith("h1"))
	achRepo := newFakeAchievementRepo(defs...)
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", Level: 1})
	achievements := NewAchievementService(achRepo, userRepo, interactionRepo)
	svc := NewInteractionService(interactionRepo, hadithRepo, achievements)
	return interactionRepo, achRepo, svc
}

func TestFavoriteTriggersUnlockPass(t *testing.T) {
	// Crossing a favorites threshold unlocks right away, not on the
	// next unrelated read
	_, achRepo, svc := newInteractionFixture(
		achievementDef("collector", 10, favoritesCriterion(1)),
	)

	require.NoError(t, svc.Favorite(context.Background(), "u1", "h1"))

	unlocked := achRepo.unlocks["u1"]
	require.Len(t, unlocked, 1)
	assert.Equal(t, "collector", unlocked[0].AchievementID)
}

func TestFavoriteBelowThresholdUnlocksNothing(t *testing.T) {
	_, achRepo, svc := newInteractionFixture(
		achievementDef("collector", 10, favoritesCriterion(5)),
	)

	require.NoError(t, svc.Favorite(context.Background(), "u1", "h1"))
	assert.Empty(t, achRepo.unlocks["u1"])
}

func TestFavoriteSurvivesEvaluationFailure(t *testing.T) {
	interactionRepo := newFakeInteractionRepo()
	hadithRepo := newFakeHadithRepo(verifiedHadith("h1"))
	userRepo := newFakeUserRepo(&models.UserStats{UserID: "u1", Level: 1})
	userRepo.getStatsErr = errors.New("connection refused")
	achievements := NewAchievementService(newFakeAchievementRepo(), userRepo, interactionRepo)
	svc := NewInteractionService(interactionRepo, hadithRepo, achievements)

	// The unlock pass fails but the favorite itself sticks
	require.NoError(t, svc.Favorite(context.Background(), "u1", "h1"))
	assert.Equal(t, 1, interactionRepo.favorites["u1"])
}

func TestFavoriteUnknownHadith(t *testing.T) {
	interactionRepo, _, svc := newInteractionFixture()

	err := svc.Favorite(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, models.ErrHadithNotFound)
	assert.Zero(t, interactionRepo.favorites["u1"])
}

func TestFavoriteWriteFailureSkipsUnlockPass(t *testing.T) {
	interactionRepo, achRepo, svc := newInteractionFixture(
		achievementDef("collector", 10, favoritesCriterion(1)),
	)
	interactionRepo.addFavoriteErr = models.ErrAlreadyFavorited

	err := svc.Favorite(context.Background(), "u1", "h1")
	assert.ErrorIs(t, err, models.ErrAlreadyFavorited)
	assert.Empty(t, achRepo.unlocks["u1"])
}
