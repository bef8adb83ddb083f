package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/donovan-vargas/recipe-app-api/config"
	"github.com/donovan-vargas/recipe-app-api/internal/api"
	"github.com/donovan-vargas/recipe-app-api/internal/middleware"
)

// New configures the application routes. With local storage the media
// directory is served directly under the media URL prefix.
func New(cfg *config.Config, userHandler *api.UserHandler, recipeHandler *api.RecipeHandler, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(log), gin.Recovery(), middleware.CORS())

	// Unsupported verbs on known routes must yield 405, not 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	if cfg.StorageBackend == config.StorageLocal {
		router.Static(cfg.MediaURL, cfg.MediaRoot)
	}

	userHandler.RegisterRoutes(router.Group("/user"))
	recipeHandler.RegisterRoutes(router.Group("/recipe"))

	return router
}
