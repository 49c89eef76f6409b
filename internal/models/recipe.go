package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	ImageURL    string         `gorm:"size:255" json:"image"`
	CookingTime int            `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`

	// Deleting the author keeps the recipe and nulls the reference.
	AuthorID *uuid.UUID `gorm:"type:uuid;index" json:"author_id"`
	Author   *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`

	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is one line of a recipe: an ingredient and its amount.
// The catalog row is RESTRICT-protected so referenced ingredients cannot be
// deleted out from under a recipe.
type RecipeIngredient struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"-"`
	RecipeID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"id"`
	Amount       int        `gorm:"not null;check:amount >= 1" json:"amount"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RelationKind discriminates the two user-recipe relations that share one
// shape and one uniqueness rule.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
)

type UserRecipeRelation struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_recipe_kind" json:"user_id"`
	RecipeID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_recipe_kind" json:"recipe_id"`
	Kind      RelationKind `gorm:"size:20;not null;uniqueIndex:idx_user_recipe_kind" json:"kind"`
	User      User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    Recipe       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *UserRecipeRelation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (UserRecipeRelation) TableName() string {
	return "user_recipe_relations"
}
