package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"amarhadis/pkg/models"
)

// paginationParams reads limit/offset query parameters with defaults
func paginationParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// notFoundOr maps a service error to an HTTP status
func notFoundOr(err error, fallback int) int {
	if errors.Is(err, models.ErrHadithNotFound) ||
		errors.Is(err, models.ErrUserNotFound) ||
		errors.Is(err, models.ErrContributionNotFound) ||
		errors.Is(err, models.ErrNotFound) {
		return 404
	}
	return fallback
}

// listHadith lists the catalog with optional filters. Unauthenticated
// browsing only ever sees verified content.
func (s *Server) listHadith(c *gin.Context) {
	limit, offset := paginationParams(c)

	filter := models.HadithFilter{
		BookID:     c.Query("book"),
		CategoryID: c.Query("category"),
		Difficulty: c.Query("difficulty"),
		Grade:      c.Query("grade"),
		Status:     string(models.StatusVerified),
	}

	hadiths, total, err := s.hadithSvc.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "failed to list hadiths",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success: true,
		Data: models.PaginatedResponse[models.Hadith]{
			Data: hadiths,
			Meta: models.NewPaginationMeta(total, limit, offset),
		},
		Timestamp: time.Now(),
	})
}

// getHadith retrieves a single hadith by ID
func (s *Server) getHadith(c *gin.Context) {
	hadith, err := s.hadithSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(404, models.APIResponse{
			Success:   false,
			Error:     "hadith not found",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      hadith,
		Timestamp: time.Now(),
	})
}

// searchHadith runs full-text search over verified content
func (s *Server) searchHadith(c *gin.Context) {
	limit, offset := paginationParams(c)

	results, total, err := s.hadithSvc.Search(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success: true,
		Data: models.PaginatedResponse[*models.HadithSearchResult]{
			Data: results,
			Meta: models.NewPaginationMeta(total, limit, offset),
		},
		Timestamp: time.Now(),
	})
}

// getTrending returns this week's most engaged hadiths
func (s *Server) getTrending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	trending, err := s.hadithSvc.GetTrending(c.Request.Context(), limit)
	if err != nil {
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "failed to load trending",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      trending,
		Timestamp: time.Now(),
	})
}

// markRead records a read, advances streaks and reports fresh unlocks
func (s *Server) markRead(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		c.JSON(401, models.APIResponse{
			Success:   false,
			Error:     "unauthorized",
			Timestamp: time.Now(),
		})
		return
	}

	hadithID := c.Param("id")
	resp, err := s.readingSvc.MarkRead(c.Request.Context(), userID, hadithID)
	if err != nil {
		c.JSON(notFoundOr(err, 500), models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	// Announce into today's reading room
	if user, ok := GetUser(c); ok && !resp.AlreadyRead {
		hub := s.wsHandler.Hub()
		hub.BroadcastRead(resp.Stats.LastReadDate, userID, user.Username, hadithID)
		if len(resp.NewlyUnlocked) > 0 {
			hub.BroadcastUnlock(resp.Stats.LastReadDate, userID, user.Username, resp.NewlyUnlocked)
		}
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Read recorded",
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// likeHadith bumps the like counter
func (s *Server) likeHadith(c *gin.Context) {
	if err := s.hadithSvc.Like(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(notFoundOr(err, 500), models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Liked",
		Timestamp: time.Now(),
	})
}

// shareHadith bumps the share counter
func (s *Server) shareHadith(c *gin.Context) {
	if err := s.hadithSvc.Share(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(notFoundOr(err, 500), models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Share recorded",
		Timestamp: time.Now(),
	})
}

// updateHadithStatus moves a hadith through moderation (moderator only)
func (s *Server) updateHadithStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "invalid request body",
			Timestamp: time.Now(),
		})
		return
	}

	err := s.hadithSvc.UpdateStatus(c.Request.Context(), c.Param("id"), models.HadithStatus(req.Status))
	if err != nil {
		c.JSON(notFoundOr(err, 400), models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Status updated",
		Timestamp: time.Now(),
	})
}
