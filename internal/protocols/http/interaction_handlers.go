package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"amarhadis/pkg/models"
)

// addFavorite saves a hadith for the caller
func (s *Server) addFavorite(c *gin.Context) {
	userID, _ := GetUserID(c)

	err := s.interactionSvc.Favorite(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrAlreadyFavorited) {
			c.JSON(409, models.APIResponse{
				Success:   false,
				Error:     "already favorited",
				Timestamp: time.Now(),
			})
			return
		}
		c.JSON(notFoundOr(err, 500), models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(201, models.APIResponse{
		Success:   true,
		Message:   "Favorited",
		Timestamp: time.Now(),
	})
}

// removeFavorite removes a saved hadith
func (s *Server) removeFavorite(c *gin.Context) {
	userID, _ := GetUserID(c)

	if err := s.interactionSvc.Unfavorite(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.JSON(notFoundOr(err, 500), models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Favorite removed",
		Timestamp: time.Now(),
	})
}

// listFavorites pages the caller's saved hadiths
func (s *Server) listFavorites(c *gin.Context) {
	userID, _ := GetUserID(c)
	limit, offset := paginationParams(c)

	favorites, total, err := s.interactionSvc.ListFavorites(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "failed to list favorites",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success: true,
		Data: models.PaginatedResponse[models.Favorite]{
			Data: favorites,
			Meta: models.NewPaginationMeta(total, limit, offset),
		},
		Timestamp: time.Now(),
	})
}

// rateHadith records or replaces the caller's star rating
func (s *Server) rateHadith(c *gin.Context) {
	userID, _ := GetUserID(c)

	var req models.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "invalid request body",
			Timestamp: time.Now(),
		})
		return
	}

	if err := s.interactionSvc.Rate(c.Request.Context(), userID, c.Param("id"), req.Stars); err != nil {
		c.JSON(notFoundOr(err, 400), models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Rating saved",
		Timestamp: time.Now(),
	})
}

// getRating returns the average rating for a hadith
func (s *Server) getRating(c *gin.Context) {
	average, count, err := s.interactionSvc.GetRating(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "failed to load rating",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success: true,
		Data: gin.H{
			"average": average,
			"count":   count,
		},
		Timestamp: time.Now(),
	})
}

// createComment posts a comment on a hadith
func (s *Server) createComment(c *gin.Context) {
	userID, _ := GetUserID(c)

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "invalid request body",
			Timestamp: time.Now(),
		})
		return
	}

	comment, err := s.interactionSvc.Comment(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		c.JSON(notFoundOr(err, 400), models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(201, models.APIResponse{
		Success:   true,
		Message:   "Comment posted",
		Data:      comment,
		Timestamp: time.Now(),
	})
}

// listComments pages comments on a hadith
func (s *Server) listComments(c *gin.Context) {
	limit, offset := paginationParams(c)

	comments, total, err := s.interactionSvc.ListComments(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "failed to list comments",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success: true,
		Data: models.PaginatedResponse[models.Comment]{
			Data: comments,
			Meta: models.NewPaginationMeta(total, limit, offset),
		},
		Timestamp: time.Now(),
	})
}

// deleteComment removes the caller's own comment
func (s *Server) deleteComment(c *gin.Context) {
	userID, _ := GetUserID(c)

	err := s.interactionSvc.DeleteComment(c.Request.Context(), c.Param("comment_id"), userID)
	if err != nil {
		c.JSON(notFoundOr(err, 500), models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Comment deleted",
		Timestamp: time.Now(),
	})
}
