package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}
	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalog.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}
	ingredient, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
