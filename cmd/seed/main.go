package main

import (
	"encoding/json"
	"errors"
	"flag"
	"os"

	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/database"
	"github.com/forkful/forkful-backend/internal/logger"
	"github.com/forkful/forkful-backend/internal/models"
)

var defaultTags = []models.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

type ingredientRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "path to the ingredient catalog JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, JSONOutput: cfg.LogJSON})
	log := logger.WithComponent("seed")

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	seeded := 0
	for _, tag := range defaultTags {
		if created, err := createIgnoringDuplicates(db, &tag); err != nil {
			log.Fatal().Err(err).Str("tag", tag.Slug).Msg("failed to seed tag")
		} else if created {
			seeded++
		}
	}
	log.Info().Int("created", seeded).Msg("tags seeded")

	raw, err := os.ReadFile(*ingredientsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *ingredientsPath).Msg("failed to read ingredient catalog")
	}
	var rows []ingredientRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Fatal().Err(err).Msg("failed to parse ingredient catalog")
	}

	seeded = 0
	for _, row := range rows {
		ingredient := models.Ingredient{Name: row.Name, MeasurementUnit: row.MeasurementUnit}
		if created, err := createIgnoringDuplicates(db, &ingredient); err != nil {
			log.Fatal().Err(err).Str("name", row.Name).Msg("failed to seed ingredient")
		} else if created {
			seeded++
		}
	}
	log.Info().Int("created", seeded).Int("total", len(rows)).Msg("ingredients seeded")
}

// createIgnoringDuplicates keeps the seeder idempotent: rerunning it leaves
// existing rows alone.
func createIgnoringDuplicates(db *gorm.DB, value interface{}) (bool, error) {
	err := db.Create(value).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
