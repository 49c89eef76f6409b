package router

import (
	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/api"
	"github.com/forkful/forkful-backend/internal/middleware"
)

// Handlers bundles everything the router wires up. RateLimiter is optional;
// without it auth routes run unlimited (tests, local runs without redis).
type Handlers struct {
	Auth        *api.AuthHandler
	Catalog     *api.CatalogHandler
	Recipes     *api.RecipeHandler
	Users       *api.UserHandler
	TokenSource middleware.TokenValidator
	RateLimiter *middleware.RateLimiter
}

// Setup configures the application routes.
func Setup(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	if h.RateLimiter != nil {
		auth.Use(h.RateLimiter.ByClientIP())
	}
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	// Catalogs are public reads.
	v1.GET("/tags", h.Catalog.ListTags)
	v1.GET("/tags/:id", h.Catalog.GetTag)
	v1.GET("/ingredients", h.Catalog.ListIngredients)
	v1.GET("/ingredients/:id", h.Catalog.GetIngredient)

	// Recipe reads are public but honor a token when one is sent, so the
	// per-caller flags come back filled in.
	reads := v1.Group("")
	reads.Use(middleware.OptionalAuthMiddleware(h.TokenSource))
	{
		reads.GET("/recipes", h.Recipes.ListRecipes)
		reads.GET("/recipes/:id", h.Recipes.GetRecipe)
		reads.GET("/users", h.Users.ListUsers)
		reads.GET("/users/:id", h.Users.GetUser)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(h.TokenSource))
	{
		protected.POST("/recipes", h.Recipes.CreateRecipe)
		protected.PATCH("/recipes/:id", h.Recipes.UpdateRecipe)
		protected.DELETE("/recipes/:id", h.Recipes.DeleteRecipe)
		protected.POST("/recipes/:id/image", h.Recipes.UploadImage)

		protected.POST("/recipes/:id/favorite", h.Recipes.AddFavorite)
		protected.DELETE("/recipes/:id/favorite", h.Recipes.RemoveFavorite)
		protected.POST("/recipes/:id/shopping_cart", h.Recipes.AddToCart)
		protected.DELETE("/recipes/:id/shopping_cart", h.Recipes.RemoveFromCart)
		protected.GET("/recipes/download_shopping_cart", h.Recipes.DownloadShoppingCart)

		protected.GET("/users/me", h.Users.Me)
		protected.GET("/users/subscriptions", h.Users.ListSubscriptions)
		protected.POST("/users/:id/subscribe", h.Users.Subscribe)
		protected.DELETE("/users/:id/subscribe", h.Users.Unsubscribe)
	}

	return router
}
