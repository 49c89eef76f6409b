package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/forkful-backend/internal/models"
)

// IngredientAmount is one requested recipe line: an ingredient id and how
// much of it.
type IngredientAmount struct {
	ID     uuid.UUID
	Amount int
}

// RecipeInput carries the client-supplied fields of a create or update
// request, before validation against the catalogs.
type RecipeInput struct {
	Name        string
	Text        string
	ImageURL    string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

// ValidatedLine is an ingredient line resolved against the catalog.
type ValidatedLine struct {
	Ingredient models.Ingredient
	Amount     int
}

// ValidatedInput is the normalized result of ValidateInput, ready to
// persist.
type ValidatedInput struct {
	Tags  []models.Tag
	Lines []ValidatedLine
}

// RecipeService validates and persists recipes. Catalog lookups go through
// the injected read-only interfaces.
type RecipeService struct {
	db          *gorm.DB
	tags        TagCatalog
	ingredients IngredientCatalog
}

func NewRecipeService(db *gorm.DB, tags TagCatalog, ingredients IngredientCatalog) *RecipeService {
	return &RecipeService{db: db, tags: tags, ingredients: ingredients}
}

// ValidateInput checks the tag and ingredient portions of a recipe payload.
// Categories are checked in a fixed order and the first failing one is
// returned: tags present, tags unique, tags known, ingredients present,
// ingredient entries well formed, ingredient ids unique, ingredients known.
func (s *RecipeService) ValidateInput(ctx context.Context, in RecipeInput) (*ValidatedInput, error) {
	if len(in.TagIDs) == 0 {
		return nil, MissingField("tags")
	}

	seenTags := make(map[uuid.UUID]struct{}, len(in.TagIDs))
	for _, id := range in.TagIDs {
		if _, dup := seenTags[id]; dup {
			return nil, DuplicateValue("tags")
		}
		seenTags[id] = struct{}{}
	}

	tags, err := s.tags.TagsByIDs(ctx, in.TagIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving tags: %w", err)
	}
	tagByID := make(map[uuid.UUID]models.Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t
	}
	resolvedTags := make([]models.Tag, 0, len(in.TagIDs))
	for _, id := range in.TagIDs {
		tag, ok := tagByID[id]
		if !ok {
			return nil, UnknownReference("tags", id.String())
		}
		resolvedTags = append(resolvedTags, tag)
	}

	if len(in.Ingredients) == 0 {
		return nil, MissingField("ingredients")
	}

	for _, entry := range in.Ingredients {
		if entry.ID == uuid.Nil {
			return nil, InvalidField("ingredients", "each entry must carry an ingredient id")
		}
		if entry.Amount < 1 {
			return nil, InvalidField("ingredients", "amount must be at least 1")
		}
	}

	seenIngredients := make(map[uuid.UUID]struct{}, len(in.Ingredients))
	for _, entry := range in.Ingredients {
		if _, dup := seenIngredients[entry.ID]; dup {
			return nil, DuplicateValue("ingredients")
		}
		seenIngredients[entry.ID] = struct{}{}
	}

	ids := make([]uuid.UUID, 0, len(in.Ingredients))
	for _, entry := range in.Ingredients {
		ids = append(ids, entry.ID)
	}
	ingredients, err := s.ingredients.IngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving ingredients: %w", err)
	}
	ingredientByID := make(map[uuid.UUID]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		ingredientByID[ing.ID] = ing
	}
	lines := make([]ValidatedLine, 0, len(in.Ingredients))
	for _, entry := range in.Ingredients {
		ing, ok := ingredientByID[entry.ID]
		if !ok {
			return nil, UnknownReference("ingredients", entry.ID.String())
		}
		lines = append(lines, ValidatedLine{Ingredient: ing, Amount: entry.Amount})
	}

	return &ValidatedInput{Tags: resolvedTags, Lines: lines}, nil
}

// Create validates the payload and persists the recipe, its tag links, and
// its ingredient lines as one transaction.
func (s *RecipeService) Create(ctx context.Context, author models.User, in RecipeInput) (*models.Recipe, error) {
	if in.CookingTime < 1 {
		return nil, InvalidField("cooking_time", "must be at least 1")
	}
	validated, err := s.ValidateInput(ctx, in)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        in.Name,
		Text:        in.Text,
		ImageURL:    in.ImageURL,
		CookingTime: in.CookingTime,
		AuthorID:    &author.ID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Append(validated.Tags); err != nil {
			return err
		}
		lines := linesFor(recipe.ID, validated.Lines)
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Update replaces the recipe's scalar fields and swaps the tag links and
// ingredient lines wholesale, in one transaction. Only the author or an
// administrator may update.
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, requester models.User, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(recipe, requester) {
		return nil, PermissionDenied("only the author may modify this recipe")
	}
	if in.CookingTime < 1 {
		return nil, InvalidField("cooking_time", "must be at least 1")
	}
	validated, err := s.ValidateInput(ctx, in)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
		}
		if in.ImageURL != "" {
			updates["image_url"] = in.ImageURL
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(validated.Tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		lines := linesFor(recipe.ID, validated.Lines)
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Delete soft-deletes the recipe and clears favorite/cart relations so they
// stop contributing to shopping lists. Only the author or an administrator
// may delete.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID, requester models.User) error {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(recipe, requester) {
		return PermissionDenied("only the author may delete this recipe")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.UserRecipeRelation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
}

// AuthorizeModify checks that the recipe exists and the requester may
// modify it, without changing anything. Callers with side effects outside
// the store (image upload) run this before those side effects happen.
func (s *RecipeService) AuthorizeModify(ctx context.Context, id uuid.UUID, requester models.User) error {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(recipe, requester) {
		return PermissionDenied("only the author may modify this recipe")
	}
	return nil
}

// SetImage points the recipe at a newly stored image. Same ownership rule
// as Update.
func (s *RecipeService) SetImage(ctx context.Context, id uuid.UUID, requester models.User, url string) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(recipe, requester) {
		return nil, PermissionDenied("only the author may modify this recipe")
	}
	err = s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipe.ID).
		Update("image_url", url).Error
	if err != nil {
		return nil, err
	}
	recipe.ImageURL = url
	return recipe, nil
}

// Get loads a recipe with its tags and ingredient lines.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("recipe does not exist")
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// RecipeFilter narrows List. Zero values mean "no filter".
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    *uuid.UUID
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Page        int
	Limit       int
}

// List returns a page of recipes plus the unpaginated total.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.FavoritedBy != nil {
		query = query.Where("recipes.id IN (?)", relationRecipeIDs(s.db, *filter.FavoritedBy, models.RelationFavorite))
	}
	if filter.InCartOf != nil {
		query = query.Where("recipes.id IN (?)", relationRecipeIDs(s.db, *filter.InCartOf, models.RelationShoppingCart))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var recipes []models.Recipe
	err := query.
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.name").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func relationRecipeIDs(db *gorm.DB, userID uuid.UUID, kind models.RelationKind) *gorm.DB {
	return db.Model(&models.UserRecipeRelation{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", userID, kind)
}

func linesFor(recipeID uuid.UUID, lines []ValidatedLine) []models.RecipeIngredient {
	out := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		out = append(out, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.Ingredient.ID,
			Amount:       line.Amount,
		})
	}
	return out
}

func canModify(recipe *models.Recipe, requester models.User) bool {
	if requester.IsAdmin {
		return true
	}
	return recipe.AuthorID != nil && *recipe.AuthorID == requester.ID
}
