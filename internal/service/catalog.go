package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

// TagCatalog resolves tag ids against the tag reference data. The recipe
// validation workflow depends on this interface rather than the database so
// it can run against an in-memory fake.
type TagCatalog interface {
	TagsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error)
}

// IngredientCatalog resolves ingredient ids against the ingredient
// reference data.
type IngredientCatalog interface {
	IngredientsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Ingredient, error)
}

// CatalogService serves the tag and ingredient catalogs. Both are read-only
// through the API; rows arrive via seeding.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("tag does not exist")
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListIngredients optionally narrows by a case-insensitive name prefix.
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("ingredient does not exist")
	}
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (s *CatalogService) TagsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *CatalogService) IngredientsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}
