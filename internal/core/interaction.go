// Package core - Favorites, Ratings and Comments
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"amarhadis/internal/repository"
	"amarhadis/pkg/logger"
	"amarhadis/pkg/models"
	"amarhadis/pkg/utils"
)

// InteractionService defines favorite, rating and comment operations
type InteractionService interface {
	Favorite(ctx context.Context, userID, hadithID string) error
	Unfavorite(ctx context.Context, userID, hadithID string) error
	ListFavorites(ctx context.Context, userID string, limit, offset int) ([]models.Favorite, int, error)
	IsFavorited(ctx context.Context, userID, hadithID string) (bool, error)

	Rate(ctx context.Context, userID, hadithID string, stars int) error
	GetRating(ctx context.Context, hadithID string) (float64, int, error)

	Comment(ctx context.Context, userID, hadithID, content string) (*models.Comment, error)
	ListComments(ctx context.Context, hadithID string, limit, offset int) ([]models.Comment, int, error)
	DeleteComment(ctx context.Context, commentID, userID string) error
}

type interactionService struct {
	interactionRepo repository.InteractionRepository
	hadithRepo      repository.HadithRepository
	achievements    AchievementService
}

// NewInteractionService creates a new interaction service
func NewInteractionService(interactionRepo repository.InteractionRepository, hadithRepo repository.HadithRepository, achievements AchievementService) InteractionService {
	return &interactionService{
		interactionRepo: interactionRepo,
		hadithRepo:      hadithRepo,
		achievements:    achievements,
	}
}

// Favorite saves a hadith for a user. A new favorite can cross a
// favorites threshold, so a successful save runs an unlock pass.
func (s *interactionService) Favorite(ctx context.Context, userID, hadithID string) error {
	if _, err := s.hadithRepo.GetByID(ctx, hadithID); err != nil {
		return err
	}
	fav := &models.Favorite{
		ID:        utils.GenerateID("fav"),
		UserID:    userID,
		HadithID:  hadithID,
		CreatedAt: time.Now(),
	}
	if err := s.interactionRepo.AddFavorite(ctx, fav); err != nil {
		return err
	}

	// The favorite itself stands; unlocks catch up on the next pass
	if _, err := s.achievements.Evaluate(ctx, userID); err != nil {
		logger.Errorf("achievement evaluation failed for %s: %v", userID, err)
	}
	return nil
}

// Unfavorite removes a saved hadith
func (s *interactionService) Unfavorite(ctx context.Context, userID, hadithID string) error {
	return s.interactionRepo.RemoveFavorite(ctx, userID, hadithID)
}

// ListFavorites pages a user's saved hadiths
func (s *interactionService) ListFavorites(ctx context.Context, userID string, limit, offset int) ([]models.Favorite, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.interactionRepo.ListFavorites(ctx, userID, limit, offset)
}

// IsFavorited reports whether the user saved the hadith
func (s *interactionService) IsFavorited(ctx context.Context, userID, hadithID string) (bool, error) {
	return s.interactionRepo.IsFavorited(ctx, userID, hadithID)
}

// Rate records or replaces a 1-5 star rating
func (s *interactionService) Rate(ctx context.Context, userID, hadithID string, stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("rating must be between 1 and 5: %w", models.ErrInvalidInput)
	}
	if _, err := s.hadithRepo.GetByID(ctx, hadithID); err != nil {
		return err
	}
	rating := &models.Rating{
		ID:       utils.GenerateID("rating"),
		UserID:   userID,
		HadithID: hadithID,
		Stars:    stars,
	}
	return s.interactionRepo.UpsertRating(ctx, rating)
}

// GetRating returns the average stars and rating count for a hadith
func (s *interactionService) GetRating(ctx context.Context, hadithID string) (float64, int, error) {
	return s.interactionRepo.GetAverageRating(ctx, hadithID)
}

// Comment posts a comment on a hadith
func (s *interactionService) Comment(ctx context.Context, userID, hadithID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("comment cannot be empty: %w", models.ErrInvalidInput)
	}
	if len(content) > 2000 {
		return nil, fmt.Errorf("comment too long: %w", models.ErrInvalidInput)
	}
	if _, err := s.hadithRepo.GetByID(ctx, hadithID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        utils.GenerateID("comment"),
		HadithID:  hadithID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.interactionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments pages comments on a hadith, newest first
func (s *interactionService) ListComments(ctx context.Context, hadithID string, limit, offset int) ([]models.Comment, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.interactionRepo.ListComments(ctx, hadithID, limit, offset)
}

// DeleteComment removes a user's own comment
func (s *interactionService) DeleteComment(ctx context.Context, commentID, userID string) error {
	return s.interactionRepo.DeleteComment(ctx, commentID, userID)
}
