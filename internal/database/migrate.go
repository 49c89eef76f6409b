package database

import (
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/logger"
	"github.com/forkful/forkful-backend/internal/models"
)

// Migrate brings the schema up to date from the model definitions. Order
// matters: referenced tables first.
func Migrate(db *gorm.DB) error {
	log := logger.WithComponent("migrate")

	err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.UserRecipeRelation{},
		&models.Subscription{},
	)
	if err != nil {
		return err
	}

	log.Info().Msg("schema migrated")
	return nil
}
