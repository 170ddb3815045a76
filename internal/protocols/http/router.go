package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"amarhadis/internal/core"
	wsProtocol "amarhadis/internal/protocols/websocket"
	"amarhadis/pkg/config"
)

// Server manages the HTTP REST API server
type Server struct {
	router          *gin.Engine
	config          *config.Config
	authSvc         core.AuthService
	dailySvc        core.DailyService
	hadithSvc       core.HadithService
	readingSvc      core.ReadingService
	achievementSvc  core.AchievementService
	interactionSvc  core.InteractionService
	contributionSvc core.ContributionService
	wsHandler       *wsProtocol.Handler
}

// NewServer creates a new HTTP server with all handlers
func NewServer(
	cfg *config.Config,
	authSvc core.AuthService,
	dailySvc core.DailyService,
	hadithSvc core.HadithService,
	readingSvc core.ReadingService,
	achievementSvc core.AchievementService,
	interactionSvc core.InteractionService,
	contributionSvc core.ContributionService,
	wsHandler *wsProtocol.Handler,
) *Server {
	// Set Gin to release mode by default
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(rateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	s := &Server{
		router:          router,
		config:          cfg,
		authSvc:         authSvc,
		dailySvc:        dailySvc,
		hadithSvc:       hadithSvc,
		readingSvc:      readingSvc,
		achievementSvc:  achievementSvc,
		interactionSvc:  interactionSvc,
		contributionSvc: contributionSvc,
		wsHandler:       wsHandler,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthCheck)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", s.register)
			auth.POST("/login", s.login)
		}

		// Daily selection (public, the heart of the app)
		v1.GET("/daily", s.getDaily)             // Today's selection
		v1.GET("/daily/:date", s.getDailyByDate) // Selection for a date

		// Hadith catalog (public)
		v1.GET("/hadith", s.listHadith)
		v1.GET("/hadith/search", s.searchHadith)
		v1.GET("/hadith/trending", s.getTrending)
		v1.GET("/hadith/:id", s.getHadith)
		v1.GET("/hadith/:id/comments", s.listComments)
		v1.GET("/hadith/:id/rating", s.getRating)
		v1.POST("/hadith/:id/share", s.shareHadith) // Anonymous shares count too

		// Achievement catalog (public, no unlock state)
		v1.GET("/achievements", s.listAchievements)

		// Public reader profiles
		v1.GET("/users/:id/stats", s.getUserStats)

		// Protected reader routes
		protected := v1.Group("", AuthMiddleware(s.authSvc))
		{
			protected.POST("/hadith/:id/read", s.markRead)
			protected.POST("/hadith/:id/like", s.likeHadith)
			protected.POST("/hadith/:id/favorite", s.addFavorite)
			protected.DELETE("/hadith/:id/favorite", s.removeFavorite)
			protected.PUT("/hadith/:id/rating", s.rateHadith)
			protected.POST("/hadith/:id/comments", s.createComment)
			protected.DELETE("/hadith/:id/comments/:comment_id", s.deleteComment)

			protected.GET("/me/stats", s.getMyStats)
			protected.GET("/me/favorites", s.listFavorites)
			protected.GET("/me/achievements", s.getMyAchievements)
			protected.GET("/me/achievements/:achievement_id/progress", s.getAchievementProgress)

			protected.POST("/contributions", s.submitContribution)
			protected.GET("/me/contributions", s.listMyContributions)
		}

		// Reading room (token validated inside the handler, query or header)
		v1.GET("/rooms/:date/ws", s.wsHandler.HandleWebSocket)
		v1.GET("/rooms/:date", s.wsHandler.GetRoomStatus)
		v1.GET("/rooms", s.wsHandler.GetGlobalStatus)

		// Moderator routes
		moderator := v1.Group("", AuthMiddleware(s.authSvc), ModeratorMiddleware())
		{
			moderator.GET("/contributions", s.listPendingContributions)
			moderator.GET("/contributions/:id", s.getContribution)
			moderator.POST("/contributions/:id/approve", s.approveContribution)
			moderator.POST("/contributions/:id/reject", s.rejectContribution)
			moderator.PUT("/hadith/:id/status", s.updateHadithStatus)
		}

		// Admin routes
		admin := v1.Group("/admin", AuthMiddleware(s.authSvc), AdminMiddleware())
		{
			admin.PUT("/users/:id/role", s.updateUserRole)
			admin.PUT("/schedule", s.setSchedule)
			admin.GET("/schedule", s.listSchedules)
			admin.GET("/schedule/:date", s.getSchedule)
			admin.POST("/seed", s.seedCatalog)
			admin.PUT("/achievements", s.upsertAchievement)
		}
	}
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router returns the gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
