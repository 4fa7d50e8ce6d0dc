package store

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/mrlokans/booktable/internal/http"
	"github.com/mrlokans/booktable/internal/logging"
)

// RouterConfig holds the dependencies of the store server.
type RouterConfig struct {
	Repository BookRepository
	Health     *apphttp.HealthController

	// ReadOnly rejects every write with 403
	ReadOnly bool
}

// NewRouter serves the books resource at /api/v1/Books, like the public fake API.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestIDMiddleware())
	router.Use(logging.AccessLog())

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(router)
	}

	api := router.Group("/api/v1", NewReadOnly(cfg.ReadOnly).Handler())
	NewBooksController(cfg.Repository).RegisterRoutes(api)
	return router
}
