// Package main - UDP Announcement Server
// Broadcasts the daily selection to listeners on the local network when
// the date rolls over. Connectionless, fire-and-forget datagrams.
//
// Port: 9091
package main

import (
	"os"
	"os/signal"
	"syscall"

	"amarhadis/internal/cache"
	"amarhadis/internal/core"
	"amarhadis/internal/protocols/udp"
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
		panic(err)
	}

	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	pool, err := database.NewPGXPool(cfg.Database)
	if err != nil {
		logger.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	hadithRepo := repository.NewHadithRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)

	dailyCache := cache.NewDailyCache(cfg.Redis)
	defer dailyCache.Close()

	dailySvc := core.NewDailyService(hadithRepo, scheduleRepo, dailyCache)

	server := udp.NewServer(cfg.UDP.Host, cfg.UDP.Port, dailySvc)
	if err := server.Start(); err != nil {
		logger.Fatalf("UDP server error: %v", err)
	}

	logger.Infof("UDP Announcement Server started on %s:%d", cfg.UDP.Host, cfg.UDP.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down UDP server...")
	server.Stop()
	logger.Info("UDP server stopped.")
}
