// Package main - TCP Engagement Aggregator
// Accepts length-prefixed engagement events (read/like/share) from other
// services and folds them into hadith counters and weekly scores.
//
// Port: 9090
package main

import (
	"os"
	"os/signal"
	"syscall"

	"amarhadis/internal/protocols/tcp"
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
	server := tcp.NewServer(cfg.TCP.Host, cfg.TCP.Port, hadithRepo)

	if err := server.Start(); err != nil {
		logger.Fatalf("TCP server error: %v", err)
	}

	logger.Infof("TCP Engagement Aggregator started on %s:%d", cfg.TCP.Host, cfg.TCP.Port)

	// graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down TCP server...")
	server.Stop()
	logger.Info("TCP server stopped.")
}
