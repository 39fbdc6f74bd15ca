package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fridgelens/backend/internal/service"
	"github.com/fridgelens/backend/internal/types"
)

// TranslateHandler translates UI strings. Translation failures are never
// surfaced as errors: the client keeps its current language.
type TranslateHandler struct {
	translator service.Translator
	logger     *zap.Logger
}

// NewTranslateHandler creates a new TranslateHandler instance.
func NewTranslateHandler(translator service.Translator, logger *zap.Logger) *TranslateHandler {
	return &TranslateHandler{
		translator: translator,
		logger:     logger.Named("api.translate"),
	}
}

// RegisterRoutes registers the translation routes.
func (h *TranslateHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/translate", h.Translate)
}

// Translate translates the given string map into the target language. On
// failure the source strings come back unchanged with fallback set.
func (h *TranslateHandler) Translate(c *gin.Context) {
	var req types.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	translated, err := h.translator.TranslateStrings(c.Request.Context(), req.Language, req.Strings)
	if err != nil {
		h.logger.Warn("translation failed, falling back to source strings",
			zap.String("language", req.Language), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"strings": req.Strings, "fallback": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"strings": translated, "fallback": false})
}
