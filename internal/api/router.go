package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/firmledger/firmledger/internal/api/v1"
	"github.com/firmledger/firmledger/internal/config"
	"github.com/firmledger/firmledger/internal/logger"
	"github.com/firmledger/firmledger/internal/rest/middleware"
	"github.com/firmledger/firmledger/internal/types"
)

// Handlers bundles the HTTP handlers mounted on the router
type Handlers struct {
	Dunning *v1.DunningHandler
}

// NewRouter builds the gin engine with the standard middleware chain
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestContextMiddleware(),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(log),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/v1")
	handlers.Dunning.RegisterRoutes(apiV1)

	return router
}
