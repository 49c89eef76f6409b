package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/forkful/forkful-backend/internal/models"
)

// NewTestDB opens a fresh in-memory sqlite database with the full schema.
// TranslateError is on, matching the production connection, so conflict
// translation behaves the same under test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.UserRecipeRelation{},
		&models.Subscription{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// CreateUser inserts a user whose email and username derive from name.
func CreateUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		Email:        name + "@example.com",
		Username:     name,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

// CreateAdmin inserts a user with the administrator flag set.
func CreateAdmin(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := CreateUser(t, db, name)
	if err := db.Model(&user).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote user %s: %v", name, err)
	}
	user.IsAdmin = true
	return user
}

// CreateTag inserts a catalog tag.
func CreateTag(t *testing.T, db *gorm.DB, name, color, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", name, err)
	}
	return tag
}

// CreateIngredient inserts a catalog ingredient.
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ingredient
}
