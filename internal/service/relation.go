package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

// RelationService manages the favorite and shopping-cart relations between
// users and recipes.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// Add creates the (user, recipe, kind) relation. An existing pair surfaces
// as a conflict — including the racing case, where the duplicate only shows
// up as a unique-constraint violation from the store.
func (s *RelationService) Add(ctx context.Context, userID, recipeID uuid.UUID, kind models.RelationKind) (*models.UserRecipeRelation, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("recipe does not exist")
	}
	if err != nil {
		return nil, err
	}

	relation := models.UserRecipeRelation{
		UserID:   userID,
		RecipeID: recipeID,
		Kind:     kind,
	}
	err = s.db.WithContext(ctx).Create(&relation).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, Conflict("recipe is already in " + kindNoun(kind))
	}
	if err != nil {
		return nil, err
	}
	return &relation, nil
}

// Remove deletes the relation; a missing pair is not found.
func (s *RelationService) Remove(ctx context.Context, userID, recipeID uuid.UUID, kind models.RelationKind) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&models.UserRecipeRelation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFound("recipe is not in " + kindNoun(kind))
	}
	return nil
}

// ExistingFor reports, for a set of recipes, which ones the user has in the
// given relation. Used to decorate list responses.
func (s *RelationService) ExistingFor(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID, kind models.RelationKind) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(recipeIDs))
	if userID == uuid.Nil || len(recipeIDs) == 0 {
		return out, nil
	}
	var relations []models.UserRecipeRelation
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND recipe_id IN ?", userID, kind, recipeIDs).
		Find(&relations).Error
	if err != nil {
		return nil, err
	}
	for _, rel := range relations {
		out[rel.RecipeID] = true
	}
	return out, nil
}

func kindNoun(kind models.RelationKind) string {
	if kind == models.RelationShoppingCart {
		return "the shopping cart"
	}
	return "favorites"
}
