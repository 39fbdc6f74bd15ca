package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fridgelens/backend/internal/api"
	"github.com/fridgelens/backend/internal/middleware"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Ingredients *api.IngredientHandler
	Generate    *api.GenerateHandler
	Feasibility *api.FeasibilityHandler
	Translate   *api.TranslateHandler

	// Rate limiters are optional; routes stay unthrottled when nil.
	GenerationLimiter *middleware.RateLimiter
	IdentifyLimiter   *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://frontend:5173"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", api.HealthCheck)
	router.GET("/api/health", api.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")

	h.Ingredients.RegisterRoutes(v1, h.IdentifyLimiter)
	h.Generate.RegisterRoutes(v1, h.GenerationLimiter)
	h.Feasibility.RegisterRoutes(v1)
	h.Translate.RegisterRoutes(v1)

	return router
}
