package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"amarhadis/pkg/models"
	"amarhadis/pkg/utils"
)

// getDaily returns today's selection. The resolver is total, so this
// endpoint always answers 200.
func (s *Server) getDaily(c *gin.Context) {
	selection := s.dailySvc.Today(c.Request.Context())
	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      selection,
		Timestamp: time.Now(),
	})
}

// getDailyByDate returns the selection for a specific date
func (s *Server) getDailyByDate(c *gin.Context) {
	dateKey := c.Param("date")
	if err := utils.ValidateDateKey(dateKey); err != nil {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "invalid date, expected YYYY-MM-DD",
			Timestamp: time.Now(),
		})
		return
	}

	selection := s.dailySvc.Resolve(c.Request.Context(), dateKey)
	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      selection,
		Timestamp: time.Now(),
	})
}

// setSchedule pins the hadiths for a date (admin only)
func (s *Server) setSchedule(c *gin.Context) {
	var req models.SetScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     "invalid request body",
			Timestamp: time.Now(),
		})
		return
	}

	schedule, err := s.dailySvc.SetSchedule(c.Request.Context(), req)
	if err != nil {
		status := 400
		if errors.Is(err, models.ErrHadithNotFound) {
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
		Message:   "Schedule saved",
		Data:      schedule,
		Timestamp: time.Now(),
	})
}

// getSchedule returns the raw schedule row for a date (admin only)
func (s *Server) getSchedule(c *gin.Context) {
	schedule, err := s.dailySvc.GetSchedule(c.Request.Context(), c.Param("date"))
	if err != nil {
		status := 400
		if errors.Is(err, models.ErrScheduleNotFound) {
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
		Data:      schedule,
		Timestamp: time.Now(),
	})
}

// listSchedules lists upcoming schedules (admin only)
func (s *Server) listSchedules(c *gin.Context) {
	limit, _ := paginationParams(c)

	schedules, err := s.dailySvc.ListUpcoming(c.Request.Context(), c.Query("from"), limit)
	if err != nil {
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      schedules,
		Timestamp: time.Now(),
	})
}

// seedCatalog installs the starter content set (admin only)
func (s *Server) seedCatalog(c *gin.Context) {
	if err := s.dailySvc.Seed(c.Request.Context()); err != nil {
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "seeding failed",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Catalog seeded",
		Timestamp: time.Now(),
	})
}
