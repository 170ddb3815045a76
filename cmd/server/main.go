package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"amarhadis/internal/cache"
	"amarhadis/internal/core"
	httpProtocol "amarhadis/internal/protocols/http"
	wsProtocol "amarhadis/internal/protocols/websocket"
	"amarhadis/internal/repository"
	"amarhadis/pkg/config"
	"amarhadis/pkg/database"
	"amarhadis/pkg/logger"
)

func main() {
	configPath := os.Getenv("AMARHADIS_CONFIG")
	if configPath == "" {
		configPath = "./configs/development.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	logger.Info("Starting Amar Hadis server...")

	pool, err := database.NewPGXPool(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	logger.Info("Connected to PostgreSQL database")

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	hadithRepo := repository.NewHadithRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	achievementRepo := repository.NewAchievementRepository(pool)
	interactionRepo := repository.NewInteractionRepository(pool)
	contributionRepo := repository.NewContributionRepository(pool)

	logger.Info("Initialized all repositories")

	// Daily selection cache (optional)
	dailyCache := cache.NewDailyCache(cfg.Redis)
	defer dailyCache.Close()

	// Initialize core services
	authSvc := core.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration.Std())
	dailySvc := core.NewDailyService(hadithRepo, scheduleRepo, dailyCache)
	hadithSvc := core.NewHadithService(hadithRepo, interactionRepo)
	achievementSvc := core.NewAchievementService(achievementRepo, userRepo, interactionRepo)
	readingSvc := core.NewReadingService(userRepo, hadithRepo, interactionRepo, achievementSvc)
	interactionSvc := core.NewInteractionService(interactionRepo, hadithRepo, achievementSvc)
	contributionSvc := core.NewContributionService(contributionRepo, hadithRepo, userRepo, achievementSvc)

	logger.Info("Initialized all core services")

	// WebSocket reading rooms
	wsHub := wsProtocol.NewHub()
	wsHandler := wsProtocol.NewHandler(wsHub, authSvc, cfg.Server.AllowedOrigins)

	// HTTP REST API server
	httpServer := httpProtocol.NewServer(
		cfg,
		authSvc,
		dailySvc,
		hadithSvc,
		readingSvc,
		achievementSvc,
		interactionSvc,
		contributionSvc,
		wsHandler,
	)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("HTTP server panic recovered: %v", r)
			}
		}()
		httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info(fmt.Sprintf("Starting HTTP server on %s", httpAddr))
		if err := httpServer.Start(httpAddr); err != nil {
			logger.Errorf("HTTP server error: %v", err)
		}
	}()

	logger.Info("Server started")
	logger.Info("Press Ctrl+C to shutdown")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info(fmt.Sprintf("Received signal: %v", sig))

	logger.Info("Shutting down...")
	wsHub.Stop()
	logger.Info("Shutdown complete")
}
