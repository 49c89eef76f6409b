package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/database"
	"github.com/forkful/forkful-backend/internal/logger"
	"github.com/forkful/forkful-backend/internal/server"
	"github.com/forkful/forkful-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, JSONOutput: cfg.LogJSON})
	log := logger.WithComponent("main")

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
		redisClient = nil
	}

	var images service.ImageUploader
	if cfg.S3Bucket != "" {
		imageService, err := service.NewImageService(context.Background(), cfg)
		if err != nil {
			log.Warn().Err(err).Msg("image storage unavailable, uploads disabled")
		} else {
			images = imageService
		}
	}

	srv := server.New(cfg, db, redisClient, images)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}
