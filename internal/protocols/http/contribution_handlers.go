package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"amarhadis/pkg/models"
)

// submitContribution files a pending hadith submission
func (s *Server) submitContribution(c *gin.Context) {
	userID, _ := GetUserID(c)

	var req models.CreateHadithRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "invalid request body",
			Timestamp: time.Now(),
		})
		return
	}

	contrib, err := s.contributionSvc.Submit(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(201, models.APIResponse{
		Success:   true,
		Message:   "Contribution submitted for review",
		Data:      contrib,
		Timestamp: time.Now(),
	})
}

// listMyContributions pages the caller's submissions
func (s *Server) listMyContributions(c *gin.Context) {
	userID, _ := GetUserID(c)
	limit, offset := paginationParams(c)

	contributions, total, err := s.contributionSvc.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "failed to list contributions",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success: true,
		Data: models.PaginatedResponse[models.Contribution]{
			Data: contributions,
			Meta: models.NewPaginationMeta(total, limit, offset),
		},
		Timestamp: time.Now(),
	})
}

// listPendingContributions pages the moderation queue (moderator only)
func (s *Server) listPendingContributions(c *gin.Context) {
	limit, offset := paginationParams(c)

	contributions, total, err := s.contributionSvc.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "failed to list contributions",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success: true,
		Data: models.PaginatedResponse[models.Contribution]{
			Data: contributions,
			Meta: models.NewPaginationMeta(total, limit, offset),
		},
		Timestamp: time.Now(),
	})
}

// getContribution retrieves one submission (moderator only)
func (s *Server) getContribution(c *gin.Context) {
	contrib, err := s.contributionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(404, models.APIResponse{
			Success:   false,
			Error:     "contribution not found",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      contrib,
		Timestamp: time.Now(),
	})
}

// approveContribution publishes a submission as a verified hadith
func (s *Server) approveContribution(c *gin.Context) {
	reviewerID, _ := GetUserID(c)

	var req models.ReviewContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "invalid request body",
			Timestamp: time.Now(),
		})
		return
	}

	hadith, err := s.contributionSvc.Approve(c.Request.Context(), c.Param("id"), reviewerID, req.Note)
	if err != nil {
		status := notFoundOr(err, 500)
		if errors.Is(err, models.ErrAlreadyReviewed) {
			status = 409
		}
		c.JSON(status, models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Contribution approved and published",
		Data:      hadith,
		Timestamp: time.Now(),
	})
}

// rejectContribution closes a submission with a note
func (s *Server) rejectContribution(c *gin.Context) {
	reviewerID, _ := GetUserID(c)

	var req models.ReviewContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "invalid request body",
			Timestamp: time.Now(),
		})
		return
	}

	err := s.contributionSvc.Reject(c.Request.Context(), c.Param("id"), reviewerID, req.Note)
	if err != nil {
		status := notFoundOr(err, 500)
		if errors.Is(err, models.ErrAlreadyReviewed) {
			status = 409
		}
		c.JSON(status, models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Contribution rejected",
		Timestamp: time.Now(),
	})
}
