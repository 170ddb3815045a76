// Package core - Hadith Catalog Business Logic
// Protocol-agnostic catalog service: browse, search, trending and
// engagement counters
package core

import (
	"context"
	"fmt"
	"strings"

	"amarhadis/internal/repository"
	"amarhadis/pkg/logger"
	"amarhadis/pkg/models"
)

// HadithService defines catalog operations
type HadithService interface {
	GetByID(ctx context.Context, id string) (*models.Hadith, error)
	List(ctx context.Context, filter models.HadithFilter, limit, offset int) ([]models.Hadith, int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.HadithSearchResult, int, error)
	GetTrending(ctx context.Context, limit int) ([]*models.TrendingHadith, error)
	Like(ctx context.Context, id string) error
	Share(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status models.HadithStatus) error
}

type hadithService struct {
	hadithRepo      repository.HadithRepository
	interactionRepo repository.InteractionRepository
}

// NewHadithService creates a new catalog service
func NewHadithService(hadithRepo repository.HadithRepository, interactionRepo repository.InteractionRepository) HadithService {
	return &hadithService{
		hadithRepo:      hadithRepo,
		interactionRepo: interactionRepo,
	}
}

// GetByID retrieves a hadith by ID
func (s *hadithService) GetByID(ctx context.Context, id string) (*models.Hadith, error) {
	return s.hadithRepo.GetByID(ctx, id)
}

// List retrieves hadiths with filters and pagination. Anonymous
// callers only ever see verified content; the handler forces the
// status filter for them.
func (s *hadithService) List(ctx context.Context, filter models.HadithFilter, limit, offset int) ([]models.Hadith, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.hadithRepo.List(ctx, filter, limit, offset)
}

// Search runs full-text search over verified content
func (s *hadithService) Search(ctx context.Context, query string, limit, offset int) ([]*models.HadithSearchResult, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, fmt.Errorf("search query is required: %w", models.ErrInvalidInput)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.hadithRepo.Search(ctx, query, limit, offset)
}

// GetTrending returns verified hadiths ranked by weekly engagement
func (s *hadithService) GetTrending(ctx context.Context, limit int) ([]*models.TrendingHadith, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.hadithRepo.GetTrending(ctx, limit)
}

// Like bumps the like counter and refreshes the weekly score
func (s *hadithService) Like(ctx context.Context, id string) error {
	if err := s.hadithRepo.IncrementLikeCount(ctx, id); err != nil {
		return err
	}
	s.refreshWeeklyScore(ctx, id)
	return nil
}

// Share bumps the share counter and refreshes the weekly score
func (s *hadithService) Share(ctx context.Context, id string) error {
	if err := s.hadithRepo.IncrementShareCount(ctx, id); err != nil {
		return err
	}
	s.refreshWeeklyScore(ctx, id)
	return nil
}

// UpdateStatus moves a hadith through the moderation lifecycle
func (s *hadithService) UpdateStatus(ctx context.Context, id string, status models.HadithStatus) error {
	switch status {
	case models.StatusPending, models.StatusVerified, models.StatusRejected:
	default:
		return fmt.Errorf("invalid status %q: %w", status, models.ErrInvalidInput)
	}
	return s.hadithRepo.UpdateStatus(ctx, id, status)
}

// refreshWeeklyScore recomputes the engagement score used by trending:
// likes weigh one, favorites and shares weigh two. Score maintenance
// is best effort.
func (s *hadithService) refreshWeeklyScore(ctx context.Context, id string) {
	hadith, err := s.hadithRepo.GetByID(ctx, id)
	if err != nil {
		logger.Warnf("weekly score refresh: load %s failed: %v", id, err)
		return
	}
	favorites, err := s.interactionRepo.CountFavoritesByHadith(ctx, id)
	if err != nil {
		logger.Warnf("weekly score refresh: favorite count for %s failed: %v", id, err)
		return
	}

	score := hadith.LikeCount + favorites*2 + hadith.ShareCount*2
	if err := s.hadithRepo.UpdateWeeklyScore(ctx, id, score); err != nil {
		logger.Warnf("weekly score refresh: write for %s failed: %v", id, err)
	}
}
