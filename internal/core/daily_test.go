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

func newDailyFixture() (*fakeHadithRepo, *fakeScheduleRepo, DailyService) {
	hadithRepo := newFakeHadithRepo()
	scheduleRepo := newFakeScheduleRepo()
	svc := NewDailyService(hadithRepo, scheduleRepo, nil)
	return hadithRepo, scheduleRepo, svc
}

func TestResolveScheduleRung(t *testing.T) {
	hadithRepo := newFakeHadithRepo(verifiedHadith("h1"), verifiedHadith("h2"), verifiedHadith("h3"))
	scheduleRepo := newFakeScheduleRepo()
	svc := NewDailyService(hadithRepo, scheduleRepo, nil)

	scheduleRepo.byDate["2026-09-01"] = &models.DailySchedule{
		DateKey:   "2026-09-01",
		HadithIDs: []string{"h3", "h1"},
		Theme:     "sincerity",
	}

	selection := svc.Resolve(context.Background(), "2026-09-01")
	assert.Equal(t, models.SourceSchedule, selection.Source)
	assert.Equal(t, "2026-09-01", selection.DateKey)
	assert.Equal(t, "sincerity", selection.Theme)
	require.Len(t, selection.Items, 2)
	// Schedule order wins, not catalog order
	assert.Equal(t, "h3", selection.Items[0].ID)
	assert.Equal(t, "h1", selection.Items[1].ID)
}

func TestResolveScheduleSkipsStatusFilter(t *testing.T) {
	// A pinned id is served even when the hadith is not verified
	hadithRepo := newFakeHadithRepo(pendingHadith("h1"))
	scheduleRepo := newFakeScheduleRepo()
	scheduleRepo.byDate["2026-09-01"] = &models.DailySchedule{
		DateKey:   "2026-09-01",
		HadithIDs: []string{"h1"},
	}
	svc := NewDailyService(hadithRepo, scheduleRepo, nil)

	selection := svc.Resolve(context.Background(), "2026-09-01")
	assert.Equal(t, models.SourceSchedule, selection.Source)
	require.Len(t, selection.Items, 1)
	assert.Equal(t, models.StatusPending, selection.Items[0].Status)
}

func TestResolveScheduleCapsItems(t *testing.T) {
	hadithRepo := newFakeHadithRepo(
		verifiedHadith("h1"), verifiedHadith("h2"),
		verifiedHadith("h3"), verifiedHadith("h4"),
	)
	scheduleRepo := newFakeScheduleRepo()
	scheduleRepo.byDate["2026-09-01"] = &models.DailySchedule{
		DateKey:   "2026-09-01",
		HadithIDs: []string{"h1", "h2", "h3", "h4"},
	}
	svc := NewDailyService(hadithRepo, scheduleRepo, nil)

	selection := svc.Resolve(context.Background(), "2026-09-01")
	assert.Len(t, selection.Items, models.ScheduleSize)
}

func TestResolveFallsToVerifiedWhenNoSchedule(t *testing.T) {
	hadithRepo := newFakeHadithRepo(pendingHadith("p1"), verifiedHadith("v1"), verifiedHadith("v2"))
	scheduleRepo := newFakeScheduleRepo()
	svc := NewDailyService(hadithRepo, scheduleRepo, nil)

	selection := svc.Resolve(context.Background(), "2026-09-01")
	assert.Equal(t, models.SourceVerified, selection.Source)
	require.Len(t, selection.Items, 2)
	for _, item := range selection.Items {
		assert.Equal(t, models.StatusVerified, item.Status)
	}
}

func TestResolveScheduleLookupErrorFallsThrough(t *testing.T) {
	// An infrastructure failure is not "no schedule", but the resolver
	// still has to answer
	hadithRepo := newFakeHadithRepo(verifiedHadith("v1"))
	scheduleRepo := newFakeScheduleRepo()
	scheduleRepo.getErr = errors.New("connection refused")
	svc := NewDailyService(hadithRepo, scheduleRepo, nil)

	selection := svc.Resolve(context.Background(), "2026-09-01")
	assert.Equal(t, models.SourceVerified, selection.Source)
	require.Len(t, selection.Items, 1)
}

func TestResolveScheduleDereferenceErrorFallsThrough(t *testing.T) {
	hadithRepo := newFakeHadithRepo(verifiedHadith("v1"))
	hadithRepo.getByIDsErr = errors.New("connection refused")
	scheduleRepo := newFakeScheduleRepo()
	scheduleRepo.byDate["2026-09-01"] = &models.DailySchedule{
		DateKey:   "2026-09-01",
		HadithIDs: []string{"v1"},
	}
	svc := NewDailyService(hadithRepo, scheduleRepo, nil)

	selection := svc.Resolve(context.Background(), "2026-09-01")
	assert.Equal(t, models.SourceVerified, selection.Source)
}

func TestResolveScheduleWithDanglingIDsFallsThrough(t *testing.T) {
	// Every scheduled id points at a deleted hadith
	hadithRepo := newFakeHadithRepo(verifiedHadith("v1"))
	scheduleRepo := newFakeScheduleRepo()
	scheduleRepo.byDate["2026-09-01"] = &models.DailySchedule{
		DateKey:   "2026-09-01",
		HadithIDs: []string{"gone1", "gone2"},
	}
	svc := NewDailyService(hadithRepo, scheduleRepo, nil)

	selection := svc.Resolve(context.Background(), "2026-09-01")
	assert.Equal(t, models.SourceVerified, selection.Source)
}

func TestResolveFallsToUnfilteredPool(t *testing.T) {
	// Only unverified content exists and nothing is scheduled
	hadithRepo := newFakeHadithRepo(pendingHadith("p1"), pendingHadith("p2"))
	scheduleRepo := newFakeScheduleRepo()
	svc := NewDailyService(hadithRepo, scheduleRepo, nil)

	selection := svc.Resolve(context.Background(), "2026-09-01")
	assert.Equal(t, models.SourceUnfiltered, selection.Source)
	assert.Len(t, selection.Items, 2)
}

func TestResolveSelfHealsEmptyCatalog(t *testing.T) {
	hadithRepo, scheduleRepo, svc := newDailyFixture()

	selection := svc.Resolve(context.Background(), utils.TodayKey())
	assert.Equal(t, models.SourceSeeded, selection.Source)
	assert.Len(t, selection.Items, models.ScheduleSize)
	// The seed set is now persisted for the next resolver
	assert.NotEmpty(t, hadithRepo.hadiths)

	// The self-heal also pins today's schedule, so the next resolve
	// serves a stable ordering from rung 1
	schedule, err := scheduleRepo.GetByDate(context.Background(), utils.TodayKey())
	require.NoError(t, err)
	assert.Len(t, schedule.HadithIDs, models.ScheduleSize)

	next := svc.Resolve(context.Background(), utils.TodayKey())
	assert.Equal(t, models.SourceSchedule, next.Source)
}

func TestResolveSeedRetryIgnoresStatusFilter(t *testing.T) {
	// A broken verified query must not turn a successful seed into the
	// static fallback; the post-seed retry reads the unfiltered pool
	hadithRepo, _, svc := newDailyFixture()
	hadithRepo.listByStatusErr = errors.New("connection refused")

	selection := svc.Resolve(context.Background(), "2026-09-01")
	assert.Equal(t, models.SourceSeeded, selection.Source)
	assert.Len(t, selection.Items, models.ScheduleSize)
}

func TestSeedPinsTodaySchedule(t *testing.T) {
	hadithRepo, scheduleRepo, svc := newDailyFixture()

	require.NoError(t, svc.Seed(context.Background()))

	schedule, err := scheduleRepo.GetByDate(context.Background(), utils.TodayKey())
	require.NoError(t, err)
	require.Len(t, schedule.HadithIDs, models.ScheduleSize)
	for _, id := range schedule.HadithIDs {
		_, ok := hadithRepo.hadiths[id]
		assert.True(t, ok, "scheduled id %s not in catalog", id)
	}
}

func TestSeedKeepsExistingSchedule(t *testing.T) {
	_, scheduleRepo, svc := newDailyFixture()
	scheduleRepo.byDate[utils.TodayKey()] = &models.DailySchedule{
		DateKey:   utils.TodayKey(),
		HadithIDs: []string{"admin-pick"},
		Theme:     "sincerity",
	}

	require.NoError(t, svc.Seed(context.Background()))

	schedule, err := scheduleRepo.GetByDate(context.Background(), utils.TodayKey())
	require.NoError(t, err)
	assert.Equal(t, []string{"admin-pick"}, schedule.HadithIDs)
	assert.Equal(t, "sincerity", schedule.Theme)
}

func TestSeedSurvivesScheduleWriteFailure(t *testing.T) {
	hadithRepo, scheduleRepo, svc := newDailyFixture()
	scheduleRepo.ensureErr = errors.New("connection refused")

	require.NoError(t, svc.Seed(context.Background()))
	assert.NotEmpty(t, hadithRepo.hadiths)
}

func TestResolveStaticWhenPersistenceIsGone(t *testing.T) {
	hadithRepo := newFakeHadithRepo()
	hadithRepo.listByStatusErr = errors.New("connection refused")
	hadithRepo.listAnyErr = errors.New("connection refused")
	hadithRepo.upsertAllErr = errors.New("connection refused")
	scheduleRepo := newFakeScheduleRepo()
	scheduleRepo.getErr = errors.New("connection refused")
	svc := NewDailyService(hadithRepo, scheduleRepo, nil)

	selection := svc.Resolve(context.Background(), "2026-09-01")
	require.NotNil(t, selection)
	assert.Equal(t, models.SourceStatic, selection.Source)
	assert.NotEmpty(t, selection.Items)
	assert.Equal(t, "2026-09-01", selection.DateKey)
}

func TestResolveMalformedDateKeyUsesToday(t *testing.T) {
	hadithRepo := newFakeHadithRepo(verifiedHadith("v1"))
	svc := NewDailyService(hadithRepo, newFakeScheduleRepo(), nil)

	selection := svc.Resolve(context.Background(), "not-a-date")
	assert.Equal(t, utils.TodayKey(), selection.DateKey)
	assert.Equal(t, models.SourceVerified, selection.Source)
}

func TestTodayUsesCurrentDate(t *testing.T) {
	hadithRepo := newFakeHadithRepo(verifiedHadith("v1"))
	svc := NewDailyService(hadithRepo, newFakeScheduleRepo(), nil)

	selection := svc.Today(context.Background())
	assert.Equal(t, utils.TodayKey(), selection.DateKey)
}

func TestSeedIsIdempotent(t *testing.T) {
	hadithRepo, _, svc := newDailyFixture()

	require.NoError(t, svc.Seed(context.Background()))
	count := len(hadithRepo.hadiths)
	require.NotZero(t, count)

	require.NoError(t, svc.Seed(context.Background()))
	assert.Equal(t, count, len(hadithRepo.hadiths))
}

func TestSetSchedule(t *testing.T) {
	hadithRepo := newFakeHadithRepo(verifiedHadith("h1"), verifiedHadith("h2"))
	scheduleRepo := newFakeScheduleRepo()
	svc := NewDailyService(hadithRepo, scheduleRepo, nil)

	schedule, err := svc.SetSchedule(context.Background(), models.SetScheduleRequest{
		DateKey:   "2026-09-02",
		HadithIDs: []string{"h2", "h1"},
		Theme:     "patience",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-09-02", schedule.DateKey)
	assert.Equal(t, []string{"h2", "h1"}, schedule.HadithIDs)
	assert.Equal(t, "patience", schedule.Theme)

	stored, err := scheduleRepo.GetByDate(context.Background(), "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, schedule.HadithIDs, stored.HadithIDs)
}

func TestSetScheduleValidation(t *testing.T) {
	hadithRepo := newFakeHadithRepo(verifiedHadith("h1"))
	svc := NewDailyService(hadithRepo, newFakeScheduleRepo(), nil)
	ctx := context.Background()

	_, err := svc.SetSchedule(ctx, models.SetScheduleRequest{
		DateKey:   "02-09-2026",
		HadithIDs: []string{"h1"},
	})
	assert.Error(t, err)

	_, err = svc.SetSchedule(ctx, models.SetScheduleRequest{
		DateKey: "2026-09-02",
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.SetSchedule(ctx, models.SetScheduleRequest{
		DateKey:   "2026-09-02",
		HadithIDs: []string{"h1", "h1", "h1", "h1"},
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.SetSchedule(ctx, models.SetScheduleRequest{
		DateKey:   "2026-09-02",
		HadithIDs: []string{"missing"},
	})
	assert.ErrorIs(t, err, models.ErrHadithNotFound)
}

func TestGetSchedule(t *testing.T) {
	scheduleRepo := newFakeScheduleRepo()
	scheduleRepo.byDate["2026-09-02"] = &models.DailySchedule{DateKey: "2026-09-02"}
	svc := NewDailyService(newFakeHadithRepo(), scheduleRepo, nil)

	schedule, err := svc.GetSchedule(context.Background(), "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-02", schedule.DateKey)

	_, err = svc.GetSchedule(context.Background(), "bogus")
	assert.Error(t, err)

	_, err = svc.GetSchedule(context.Background(), "2026-09-03")
	assert.ErrorIs(t, err, models.ErrScheduleNotFound)
}

func TestListUpcomingDefaults(t *testing.T) {
	scheduleRepo := newFakeScheduleRepo()
	scheduleRepo.upcoming = []models.DailySchedule{{DateKey: "2026-09-02"}}
	svc := NewDailyService(newFakeHadithRepo(), scheduleRepo, nil)

	schedules, err := svc.ListUpcoming(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, schedules, 1)
	assert.Equal(t, utils.TodayKey(), scheduleRepo.lastFrom)
	assert.Equal(t, 30, scheduleRepo.lastLimit)

	_, err = svc.ListUpcoming(context.Background(), "2026-09-02", 500)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-02", scheduleRepo.lastFrom)
	assert.Equal(t, 30, scheduleRepo.lastLimit)

	_, err = svc.ListUpcoming(context.Background(), "nope", 10)
	assert.Error(t, err)
}
