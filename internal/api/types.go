package api

import (
	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/models"
)

// UserResponse is the public view of a user, decorated with whether the
// caller follows them.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// IngredientLineResponse is one recipe ingredient line with its catalog
// fields expanded.
type IngredientLineResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeResponse is the full recipe view.
type RecipeResponse struct {
	ID                uuid.UUID                `json:"id"`
	Tags              []models.Tag             `json:"tags"`
	Author            *UserResponse            `json:"author"`
	Ingredients       []IngredientLineResponse `json:"ingredients"`
	IsFavorited       bool                     `json:"is_favorited"`
	IsInShoppingCart  bool                     `json:"is_in_shopping_cart"`
	Name              string                   `json:"name"`
	Image             string                   `json:"image"`
	Text              string                   `json:"text"`
	CookingTime       int                      `json:"cooking_time"`
}

// RecipeShortResponse is the compact recipe view used in relation and
// subscription payloads.
type RecipeShortResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// SubscriptionResponse is an author the caller follows, with a sample of
// their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// PageResponse wraps a paginated list.
type PageResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}

type ingredientAmountRequest struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

type recipeRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Text        string                    `json:"text" binding:"required"`
	Image       string                    `json:"image"`
	CookingTime int                       `json:"cooking_time"`
	Tags        []uuid.UUID               `json:"tags"`
	Ingredients []ingredientAmountRequest `json:"ingredients"`
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func newUserResponse(user models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

func newRecipeShortResponse(recipe models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

func newRecipeResponse(recipe models.Recipe, favorited, inCart bool) RecipeResponse {
	lines := make([]IngredientLineResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		lines = append(lines, IngredientLineResponse{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	resp := RecipeResponse{
		ID:               recipe.ID,
		Tags:             recipe.Tags,
		Ingredients:      lines,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
	if recipe.Author != nil {
		author := newUserResponse(*recipe.Author, false)
		resp.Author = &author
	}
	return resp
}
