package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/service"
)

type RecipeHandler struct {
	recipes   *service.RecipeService
	relations *service.RelationService
	lists     *service.ShoppingListService
	images    service.ImageUploader
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	relations *service.RelationService,
	lists *service.ShoppingListService,
	images service.ImageUploader,
) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, relations: relations, lists: lists, images: images}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		Page:     intQuery(c, "page", 1),
		Limit:    intQuery(c, "limit", 10),
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &id
	}

	viewer := middleware.CurrentUserID(c)
	if c.Query("is_favorited") == "1" && viewer != uuid.Nil {
		filter.FavoritedBy = &viewer
	}
	if c.Query("is_in_shopping_cart") == "1" && viewer != uuid.Nil {
		filter.InCartOf = &viewer
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		renderError(c, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	favorited, err := h.relations.ExistingFor(c.Request.Context(), viewer, ids, models.RelationFavorite)
	if err != nil {
		renderError(c, err)
		return
	}
	inCart, err := h.relations.ExistingFor(c.Request.Context(), viewer, ids, models.RelationShoppingCart)
	if err != nil {
		renderError(c, err)
		return
	}

	results := make([]RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		results = append(results, newRecipeResponse(r, favorited[r.ID], inCart[r.ID]))
	}
	c.JSON(http.StatusOK, PageResponse{Count: total, Results: results})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	viewer := middleware.CurrentUserID(c)
	favorited, err := h.relations.ExistingFor(c.Request.Context(), viewer, []uuid.UUID{id}, models.RelationFavorite)
	if err != nil {
		renderError(c, err)
		return
	}
	inCart, err := h.relations.ExistingFor(c.Request.Context(), viewer, []uuid.UUID{id}, models.RelationShoppingCart)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecipeResponse(*recipe, favorited[id], inCart[id]))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), requester(c), recipeInputFrom(req))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRecipeResponse(*recipe, false, false))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, requester(c), recipeInputFrom(req))
	if err != nil {
		renderError(c, err)
		return
	}

	viewer := middleware.CurrentUserID(c)
	favorited, err := h.relations.ExistingFor(c.Request.Context(), viewer, []uuid.UUID{id}, models.RelationFavorite)
	if err != nil {
		renderError(c, err)
		return
	}
	inCart, err := h.relations.ExistingFor(c.Request.Context(), viewer, []uuid.UUID{id}, models.RelationShoppingCart)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(*recipe, favorited[id], inCart[id]))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id, requester(c)); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context)    { h.addRelation(c, models.RelationFavorite) }
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) { h.removeRelation(c, models.RelationFavorite) }
func (h *RecipeHandler) AddToCart(c *gin.Context)      { h.addRelation(c, models.RelationShoppingCart) }
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, models.RelationShoppingCart)
}

func (h *RecipeHandler) addRelation(c *gin.Context, kind models.RelationKind) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	_, err := h.relations.Add(c.Request.Context(), middleware.CurrentUserID(c), id, kind)
	if err != nil {
		renderError(c, err)
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeShortResponse(*recipe))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, kind models.RelationKind) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.relations.Remove(c.Request.Context(), middleware.CurrentUserID(c), id, kind); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart streams the aggregated shopping list as a text
// attachment. An empty cart still renders the header.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.lists.Aggregate(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		renderError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_cart.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.Render(items)))
}

// UploadImage accepts a multipart image, stores it, and points the recipe
// at the stored URL.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}

	id, ok := recipeID(c)
	if !ok {
		return
	}

	// Existence and ownership are settled before the object store is
	// touched, so a rejected request never leaves an orphaned object.
	if err := h.recipes.AuthorizeModify(c.Request.Context(), id, requester(c)); err != nil {
		renderError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	url, err := h.images.Upload(c.Request.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		renderError(c, err)
		return
	}

	recipe, err := h.recipes.SetImage(c.Request.Context(), id, requester(c), url)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeShortResponse(*recipe))
}

func recipeInputFrom(req recipeRequest) service.RecipeInput {
	ingredients := make([]service.IngredientAmount, 0, len(req.Ingredients))
	for _, entry := range req.Ingredients {
		ingredients = append(ingredients, service.IngredientAmount{ID: entry.ID, Amount: entry.Amount})
	}
	return service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: ingredients,
	}
}

func recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return uuid.Nil, false
	}
	return id, true
}

// requester builds the acting user from the token claims. Permission checks
// only need the id and the admin flag.
func requester(c *gin.Context) models.User {
	return models.User{
		ID:      middleware.CurrentUserID(c),
		IsAdmin: c.GetBool("is_admin"),
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
