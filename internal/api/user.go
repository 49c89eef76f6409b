package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/service"
)

type UserHandler struct {
	auth          *service.AuthService
	subscriptions *service.SubscriptionService
	recipes       *service.RecipeService
}

func NewUserHandler(auth *service.AuthService, subscriptions *service.SubscriptionService, recipes *service.RecipeService) *UserHandler {
	return &UserHandler{auth: auth, subscriptions: subscriptions, recipes: recipes}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, total, err := h.auth.ListUsers(c.Request.Context(), intQuery(c, "page", 1), intQuery(c, "limit", 10))
	if err != nil {
		renderError(c, err)
		return
	}

	viewer := middleware.CurrentUserID(c)
	results := make([]UserResponse, 0, len(users))
	for _, user := range users {
		subscribed, err := h.subscriptions.IsSubscribed(c.Request.Context(), viewer, user.ID)
		if err != nil {
			renderError(c, err)
			return
		}
		results = append(results, newUserResponse(user, subscribed))
	}
	c.JSON(http.StatusOK, PageResponse{Count: total, Results: results})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	subscribed, err := h.subscriptions.IsSubscribed(c.Request.Context(), middleware.CurrentUserID(c), user.ID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user, subscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user, false))
}

// ListSubscriptions returns the authors the caller follows, each with a
// sample of their recipes.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	viewer := middleware.CurrentUserID(c)
	authors, total, err := h.subscriptions.Subscriptions(c.Request.Context(), viewer, intQuery(c, "page", 1), intQuery(c, "limit", 10))
	if err != nil {
		renderError(c, err)
		return
	}

	results := make([]SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		recipes, count, err := h.recipes.List(c.Request.Context(), service.RecipeFilter{
			AuthorID: &author.ID,
			Limit:    3,
		})
		if err != nil {
			renderError(c, err)
			return
		}
		shorts := make([]RecipeShortResponse, 0, len(recipes))
		for _, r := range recipes {
			shorts = append(shorts, newRecipeShortResponse(r))
		}
		results = append(results, SubscriptionResponse{
			UserResponse: newUserResponse(author, true),
			Recipes:      shorts,
			RecipesCount: count,
		})
	}
	c.JSON(http.StatusOK, PageResponse{Count: total, Results: results})
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	_, err = h.subscriptions.Subscribe(c.Request.Context(), middleware.CurrentUserID(c), authorID)
	if err != nil {
		renderError(c, err)
		return
	}

	author, err := h.auth.GetUser(c.Request.Context(), authorID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(*author, true))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), middleware.CurrentUserID(c), authorID); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
