package main

import (
	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/database"
	"github.com/forkful/forkful-backend/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, JSONOutput: cfg.LogJSON})
	log := logger.WithComponent("migrate")

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
