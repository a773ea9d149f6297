package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	RecipeService  service.IRecipeService
	Ping           api.Pinger
	Logger         *slog.Logger
	AllowedOrigins []string
	Version        string

	// Limiter guards the create routes; nil disables rate limiting.
	Limiter middleware.Limiter
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(api.Templates())

	router.Use(
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.Metrics(),
		middleware.CORS(deps.AllowedOrigins),
	)

	var writeLimit []gin.HandlerFunc
	if deps.Limiter != nil {
		writeLimit = append(writeLimit, middleware.RateLimit(deps.Limiter, deps.Logger))
	}

	router.GET("/health", api.HealthCheck(deps.Ping))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api.NewPageHandler(deps.RecipeService, deps.Logger).RegisterRoutes(router, writeLimit...)

	v1 := router.Group("/api/v1")
	api.NewRecipeHandler(deps.RecipeService, deps.Logger).RegisterRoutes(v1, writeLimit...)

	api.NewDocsHandler("Recipes API", deps.Version, router.Routes).RegisterRoutes(&router.RouterGroup)

	return router
}
