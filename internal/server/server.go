package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/api"
	"github.com/forkful/forkful-backend/internal/logger"
	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/router"
	"github.com/forkful/forkful-backend/internal/service"
)

// Server owns the HTTP listener and the service graph behind it.
type Server struct {
	engine *gin.Engine
	http   *http.Server
}

// New wires services and handlers onto the router. redisClient and images
// may be nil; the affected features degrade instead of blocking startup.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, images service.ImageUploader) *Server {
	authService := service.NewAuthService(db, cfg.JWTSecret)
	catalogService := service.NewCatalogService(db)
	recipeService := service.NewRecipeService(db, catalogService, catalogService)
	relationService := service.NewRelationService(db)
	subscriptionService := service.NewSubscriptionService(db)
	listService := service.NewShoppingListService(db)

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewAuthRateLimiter(redisClient)
	}

	engine := router.Setup(router.Handlers{
		Auth:        api.NewAuthHandler(authService),
		Catalog:     api.NewCatalogHandler(catalogService),
		Recipes:     api.NewRecipeHandler(recipeService, relationService, listService, images),
		Users:       api.NewUserHandler(authService, subscriptionService, recipeService),
		TokenSource: authService,
		RateLimiter: limiter,
	})

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	log := logger.WithComponent("server")
	log.Info().Str("addr", s.http.Addr).Msg("listening")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
