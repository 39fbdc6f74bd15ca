package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fridgelens/backend/internal/middleware"
	"github.com/fridgelens/backend/internal/service"
)

const (
	maxPhotos    = 5
	maxPhotoSize = 10 << 20 // 10 MiB
)

// IngredientHandler turns uploaded fridge photos into a pantry inventory.
type IngredientHandler struct {
	identifier service.IngredientIdentifier
	logger     *zap.Logger
}

// NewIngredientHandler creates a new IngredientHandler instance.
func NewIngredientHandler(identifier service.IngredientIdentifier, logger *zap.Logger) *IngredientHandler {
	return &IngredientHandler{
		identifier: identifier,
		logger:     logger.Named("api.ingredients"),
	}
}

// RegisterRoutes registers the ingredient routes.
func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup, limiter *middleware.RateLimiter) {
	ingredients := router.Group("/ingredients")
	if limiter != nil {
		ingredients.Use(limiter.RateLimitMiddleware())
	}
	ingredients.POST("/identify", h.Identify)
}

// Identify accepts multipart photos under the "images" field and returns the
// recognized ingredients.
func (h *IngredientHandler) Identify(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected multipart form with images"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one image is required"})
		return
	}
	if len(files) > maxPhotos {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many images"})
		return
	}

	images := make([][]byte, 0, len(files))
	for _, file := range files {
		if file.Size > maxPhotoSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large"})
			return
		}
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
			return
		}
		images = append(images, data)
	}

	ingredients, err := h.identifier.IdentifyIngredients(c.Request.Context(), images)
	if err != nil {
		var parseErr *service.ParseError
		if errors.As(err, &parseErr) {
			h.logger.Error("ingredient identification unparsable", zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not identify ingredients from the photos"})
			return
		}
		h.logger.Error("ingredient identification failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Ingredient identification failed, please try again"})
		return
	}

	if len(ingredients) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No ingredients were identified in the photos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}
