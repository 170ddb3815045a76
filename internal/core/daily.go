// Package core - Daily Selection Resolver
// Resolves which hadiths to surface for a given date. The resolver is
// total: every rung of the fallback cascade may fail, the last cannot.
package core

import (
	"context"
	"errors"

	"amarhadis/internal/cache"
	"amarhadis/internal/repository"
	"amarhadis/pkg/logger"
	"amarhadis/pkg/models"
	"amarhadis/pkg/utils"
)

// DailyService resolves and administers daily selections
type DailyService interface {
	// Resolve returns the selection for a date. It never fails; the
	// worst case is the static in-process fallback.
	Resolve(ctx context.Context, dateKey string) *models.DailySelection

	// Today resolves the current date
	Today(ctx context.Context) *models.DailySelection

	// SetSchedule pins the hadiths for a date (admin)
	SetSchedule(ctx context.Context, req models.SetScheduleRequest) (*models.DailySchedule, error)

	// GetSchedule returns the raw schedule row for a date (admin)
	GetSchedule(ctx context.Context, dateKey string) (*models.DailySchedule, error)

	// ListUpcoming lists schedules from a date forward (admin)
	ListUpcoming(ctx context.Context, fromDate string, limit int) ([]models.DailySchedule, error)

	// Seed installs the starter content set. Safe to call repeatedly.
	Seed(ctx context.Context) error
}

type dailyService struct {
	hadithRepo   repository.HadithRepository
	scheduleRepo repository.ScheduleRepository
	dailyCache   *cache.DailyCache
}

// NewDailyService creates a new daily selection service. dailyCache may
// be nil when Redis is disabled.
func NewDailyService(hadithRepo repository.HadithRepository, scheduleRepo repository.ScheduleRepository, dailyCache *cache.DailyCache) DailyService {
	return &dailyService{
		hadithRepo:   hadithRepo,
		scheduleRepo: scheduleRepo,
		dailyCache:   dailyCache,
	}
}

// Today resolves the selection for the current local date
func (s *dailyService) Today(ctx context.Context) *models.DailySelection {
	return s.Resolve(ctx, utils.TodayKey())
}

// Resolve walks the fallback cascade until a rung yields at least one
// item. Rungs, in order: explicit schedule, verified pool, unfiltered
// pool, self-healing seed, static constant.
func (s *dailyService) Resolve(ctx context.Context, dateKey string) *models.DailySelection {
	if _, err := utils.ParseDateKey(dateKey); err != nil {
		logger.Warnf("daily resolve got malformed date key %q, using today", dateKey)
		dateKey = utils.TodayKey()
	}

	if cached := s.dailyCache.Get(ctx, dateKey); cached != nil {
		return cached
	}

	selection := s.resolve(ctx, dateKey)
	logger.Resolver(selection.DateKey, string(selection.Source), len(selection.Items))

	// Static results are symptoms, not answers; keep them out of the cache
	if selection.Source != models.SourceStatic {
		s.dailyCache.Set(ctx, selection)
	}
	return selection
}

func (s *dailyService) resolve(ctx context.Context, dateKey string) *models.DailySelection {
	// Rung 1: explicit schedule. Scheduled ids are served as-is, in
	// schedule order, without re-checking verification status: an
	// admin pinning an id is itself the editorial approval.
	if schedule, err := s.scheduleRepo.GetByDate(ctx, dateKey); err == nil {
		items, err := s.hadithRepo.GetByIDs(ctx, schedule.HadithIDs)
		if err != nil {
			logger.Errorf("daily resolve %s: schedule dereference failed: %v", dateKey, err)
		} else if len(items) > 0 {
			return &models.DailySelection{
				DateKey: dateKey,
				Items:   capItems(items),
				Theme:   schedule.Theme,
				Source:  models.SourceSchedule,
			}
		}
	} else if !errors.Is(err, models.ErrScheduleNotFound) {
		logger.Errorf("daily resolve %s: schedule lookup failed: %v", dateKey, err)
	}

	// Rung 2: anything verified
	if items, err := s.hadithRepo.ListByStatus(ctx, models.StatusVerified, models.ScheduleSize); err != nil {
		logger.Errorf("daily resolve %s: verified pool failed: %v", dateKey, err)
	} else if len(items) > 0 {
		return &models.DailySelection{
			DateKey: dateKey,
			Items:   capItems(items),
			Source:  models.SourceVerified,
		}
	}

	// Rung 3: anything at all, status ignored
	if items, err := s.hadithRepo.ListAny(ctx, models.ScheduleSize); err != nil {
		logger.Errorf("daily resolve %s: unfiltered pool failed: %v", dateKey, err)
	} else if len(items) > 0 {
		return &models.DailySelection{
			DateKey: dateKey,
			Items:   capItems(items),
			Source:  models.SourceUnfiltered,
		}
	}

	// Rung 4: the catalog is empty. Install the seed set and retry the
	// unfiltered fetch; the inserts are conflict-tolerant so concurrent
	// resolvers are fine.
	if err := s.Seed(ctx); err != nil {
		logger.Errorf("daily resolve %s: self-heal seed failed: %v", dateKey, err)
	} else if items, err := s.hadithRepo.ListAny(ctx, models.ScheduleSize); err != nil {
		logger.Errorf("daily resolve %s: post-seed read failed: %v", dateKey, err)
	} else if len(items) > 0 {
		return &models.DailySelection{
			DateKey: dateKey,
			Items:   capItems(items),
			Source:  models.SourceSeeded,
		}
	}

	// Rung 5: persistence is gone entirely. Serve from memory.
	return &models.DailySelection{
		DateKey: dateKey,
		Items:   staticFallback(),
		Source:  models.SourceStatic,
	}
}

// Seed writes the starter hadith set and pins today's schedule to its
// leading entries. Inserts skip rows that already exist, so the
// operation is idempotent and never overwrites an admin's schedule.
func (s *dailyService) Seed(ctx context.Context) error {
	hadiths := seedHadiths()
	if err := s.hadithRepo.UpsertAll(ctx, hadiths); err != nil {
		return err
	}

	ids := make([]string, 0, models.ScheduleSize)
	for _, h := range hadiths[:models.ScheduleSize] {
		ids = append(ids, h.ID)
	}
	if err := s.scheduleRepo.EnsureExists(ctx, &models.DailySchedule{
		DateKey:   utils.TodayKey(),
		HadithIDs: ids,
	}); err != nil {
		// The items landed; a missing schedule row only costs rung-1
		// ordering until the next seed
		logger.Warnf("seed could not pin today's schedule: %v", err)
	}
	return nil
}

// SetSchedule validates and upserts the schedule for a date, then drops
// any cached selection for it
func (s *dailyService) SetSchedule(ctx context.Context, req models.SetScheduleRequest) (*models.DailySchedule, error) {
	if err := utils.ValidateDateKey(req.DateKey); err != nil {
		return nil, err
	}
	if len(req.HadithIDs) == 0 || len(req.HadithIDs) > models.ScheduleSize {
		return nil, models.ErrInvalidInput
	}
	for _, id := range req.HadithIDs {
		if _, err := s.hadithRepo.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	schedule := &models.DailySchedule{
		DateKey:   req.DateKey,
		HadithIDs: req.HadithIDs,
		Theme:     req.Theme,
	}
	if err := s.scheduleRepo.Upsert(ctx, schedule); err != nil {
		return nil, err
	}

	s.dailyCache.Invalidate(ctx, req.DateKey)
	return schedule, nil
}

// GetSchedule returns the schedule row for a date
func (s *dailyService) GetSchedule(ctx context.Context, dateKey string) (*models.DailySchedule, error) {
	if err := utils.ValidateDateKey(dateKey); err != nil {
		return nil, err
	}
	return s.scheduleRepo.GetByDate(ctx, dateKey)
}

// ListUpcoming lists schedules at or after fromDate
func (s *dailyService) ListUpcoming(ctx context.Context, fromDate string, limit int) ([]models.DailySchedule, error) {
	if fromDate == "" {
		fromDate = utils.TodayKey()
	}
	if err := utils.ValidateDateKey(fromDate); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.scheduleRepo.ListUpcoming(ctx, fromDate, limit)
}

// capItems trims a slice to the daily selection size
func capItems(items []models.Hadith) []models.Hadith {
	if len(items) > models.ScheduleSize {
		return items[:models.ScheduleSize]
	}
	return items
}
