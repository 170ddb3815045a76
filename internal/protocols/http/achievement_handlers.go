package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"amarhadis/internal/core"
	"amarhadis/pkg/models"
)

// listAchievements returns the public achievement catalog
func (s *Server) listAchievements(c *gin.Context) {
	achievements, err := s.achievementSvc.Catalog(c.Request.Context())
	if err != nil {
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "failed to load achievements",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      achievements,
		Timestamp: time.Now(),
	})
}

// getMyAchievements returns achievements annotated with the caller's
// unlock state and progress
func (s *Server) getMyAchievements(c *gin.Context) {
	userID, _ := GetUserID(c)

	statuses, err := s.achievementSvc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "failed to load achievements",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      statuses,
		Timestamp: time.Now(),
	})
}

// getAchievementProgress reports progress toward one achievement
func (s *Server) getAchievementProgress(c *gin.Context) {
	userID, _ := GetUserID(c)

	progress, err := s.achievementSvc.Progress(c.Request.Context(), userID, c.Param("achievement_id"))
	if err != nil {
		status := 500
		if errors.Is(err, models.ErrNotFound) {
			status = 404
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
		Data:      progress,
		Timestamp: time.Now(),
	})
}

// getMyStats returns the caller's stats card
func (s *Server) getMyStats(c *gin.Context) {
	userID, _ := GetUserID(c)

	stats, err := s.readingSvc.GetStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "failed to load stats",
			Timestamp: time.Now(),
		})
		return
	}

	_, favoriteCount, err := s.interactionSvc.ListFavorites(c.Request.Context(), userID, 1, 0)
	if err != nil {
		favoriteCount = 0
	}

	c.JSON(200, models.APIResponse{
		Success: true,
		Data: models.UserStatsResponse{
			Stats:      *stats,
			Favorites:  favoriteCount,
			LevelTitle: core.LevelForPoints(stats.Points).Title,
		},
		Timestamp: time.Now(),
	})
}

// getUserStats returns another reader's public stats card
func (s *Server) getUserStats(c *gin.Context) {
	userID := c.Param("id")

	stats, err := s.readingSvc.GetStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(404, models.APIResponse{
			Success:   false,
			Error:     "user not found",
			Timestamp: time.Now(),
		})
		return
	}

	_, favoriteCount, err := s.interactionSvc.ListFavorites(c.Request.Context(), userID, 1, 0)
	if err != nil {
		favoriteCount = 0
	}

	c.JSON(200, models.APIResponse{
		Success: true,
		Data: models.UserStatsResponse{
			Stats:      *stats,
			Favorites:  favoriteCount,
			LevelTitle: core.LevelForPoints(stats.Points).Title,
		},
		Timestamp: time.Now(),
	})
}

// upsertAchievement installs or updates a definition (admin only)
func (s *Server) upsertAchievement(c *gin.Context) {
	var def models.Achievement
	if err := c.ShouldBindJSON(&def); err != nil {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "invalid request body",
			Timestamp: time.Now(),
		})
		return
	}

	if err := s.achievementSvc.UpsertDefinition(c.Request.Context(), &def); err != nil {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Achievement saved",
		Data:      def,
		Timestamp: time.Now(),
	})
}
