// Package core - Contribution Moderation
// Users submit hadiths; moderators approve into the verified catalog
// or reject with a note. Approval credits the contributor.
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

// ContributionService defines submission and moderation operations
type ContributionService interface {
	Submit(ctx context.Context, userID string, req models.CreateHadithRequest) (*models.Contribution, error)
	GetByID(ctx context.Context, id string) (*models.Contribution, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.Contribution, int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Contribution, int, error)

	// Approve creates a verified hadith from the submission and
	// credits the contributor
	Approve(ctx context.Context, id, reviewerID, note string) (*models.Hadith, error)

	// Reject closes the submission with a note
	Reject(ctx context.Context, id, reviewerID, note string) error
}

type contributionService struct {
	contributionRepo repository.ContributionRepository
	hadithRepo       repository.HadithRepository
	userRepo         repository.UserRepository
	achievements     AchievementService
}

// NewContributionService creates a new contribution service
func NewContributionService(contributionRepo repository.ContributionRepository, hadithRepo repository.HadithRepository, userRepo repository.UserRepository, achievements AchievementService) ContributionService {
	return &contributionService{
		contributionRepo: contributionRepo,
		hadithRepo:       hadithRepo,
		userRepo:         userRepo,
		achievements:     achievements,
	}
}

// Submit files a pending contribution
func (s *contributionService) Submit(ctx context.Context, userID string, req models.CreateHadithRequest) (*models.Contribution, error) {
	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	contrib := &models.Contribution{
		ID:         utils.GenerateContributionID(),
		UserID:     userID,
		Submission: req,
		Status:     models.ContributionPending,
		CreatedAt:  time.Now(),
	}
	if err := s.contributionRepo.Create(ctx, contrib); err != nil {
		return nil, fmt.Errorf("failed to submit contribution: %w", err)
	}
	return contrib, nil
}

func validateSubmission(req models.CreateHadithRequest) error {
	if req.BookID == "" || req.CategoryID == "" {
		return fmt.Errorf("book and category are required: %w", models.ErrInvalidInput)
	}
	if err := utils.ValidateHadithText(req.BanglaText); err != nil {
		return err
	}
	if err := utils.ValidateGrade(req.Grade); err != nil {
		return err
	}
	if req.Difficulty != "" {
		if err := utils.ValidateDifficulty(req.Difficulty); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a contribution
func (s *contributionService) GetByID(ctx context.Context, id string) (*models.Contribution, error) {
	return s.contributionRepo.GetByID(ctx, id)
}

// ListPending pages the moderation queue, oldest first
func (s *contributionService) ListPending(ctx context.Context, limit, offset int) ([]models.Contribution, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.contributionRepo.ListByStatus(ctx, models.ContributionPending, limit, offset)
}

// ListByUser pages a user's own submissions
func (s *contributionService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Contribution, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.contributionRepo.ListByUser(ctx, userID, limit, offset)
}

// Approve turns a pending submission into a verified hadith. The hadith
// is created first; marking the contribution reviewed seals the
// decision, so a duplicate approval cannot create a second hadith.
func (s *contributionService) Approve(ctx context.Context, id, reviewerID, note string) (*models.Hadith, error) {
	contrib, err := s.contributionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contrib.Status != models.ContributionPending {
		return nil, models.ErrAlreadyReviewed
	}

	sub := contrib.Submission
	now := time.Now()
	hadith := &models.Hadith{
		ID:          utils.GenerateHadithID(),
		BookID:      sub.BookID,
		CategoryID:  sub.CategoryID,
		ArabicText:  sub.ArabicText,
		BanglaText:  sub.BanglaText,
		EnglishText: sub.EnglishText,
		Narrator:    sub.Narrator,
		Grade:       models.HadithGrade(sub.Grade),
		Reference:   sub.Reference,
		Explanation: sub.Explanation,
		Difficulty:  sub.Difficulty,
		Status:      models.StatusVerified,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.contributionRepo.MarkReviewed(ctx, id, models.ContributionApproved, reviewerID, note, hadith.ID); err != nil {
		return nil, err
	}
	if err := s.hadithRepo.Create(ctx, hadith); err != nil {
		return nil, fmt.Errorf("failed to publish approved hadith: %w", err)
	}

	if err := s.userRepo.IncrementContributions(ctx, contrib.UserID); err != nil {
		logger.Errorf("failed to credit contribution %s to %s: %v", id, contrib.UserID, err)
	} else if _, err := s.achievements.Evaluate(ctx, contrib.UserID); err != nil {
		logger.Errorf("achievement evaluation failed for %s after approval: %v", contrib.UserID, err)
	}

	return hadith, nil
}

// Reject closes a pending submission with the moderator's note
func (s *contributionService) Reject(ctx context.Context, id, reviewerID, note string) error {
	return s.contributionRepo.MarkReviewed(ctx, id, models.ContributionRejected, reviewerID, note, "")
}
