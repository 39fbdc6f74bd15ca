package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fridgelens/backend/internal/model"
	"github.com/fridgelens/backend/internal/pantry"
	"github.com/fridgelens/backend/internal/types"
)

// FeasibilityHandler exposes the feasibility engine: maximum servings and
// shopping-list deltas. Both are pure computations, recomputed per request.
type FeasibilityHandler struct{}

// NewFeasibilityHandler creates a new FeasibilityHandler instance.
func NewFeasibilityHandler() *FeasibilityHandler {
	return &FeasibilityHandler{}
}

// RegisterRoutes registers the feasibility routes.
func (h *FeasibilityHandler) RegisterRoutes(router *gin.RouterGroup) {
	feasibility := router.Group("/feasibility")
	{
		feasibility.POST("/servings", h.MaxServings)
		feasibility.POST("/shopping-list", h.ShoppingList)
	}
}

// MaxServings returns how many whole servings the pantry supports.
func (h *FeasibilityHandler) MaxServings(c *gin.Context) {
	var req types.ServingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"max_servings": pantry.MaxServings(req.Ingredients, req.Pantry),
	})
}

// ShoppingList returns the missing amounts for the desired serving count.
func (h *FeasibilityHandler) ShoppingList(c *gin.Context) {
	var req types.ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := pantry.ShoppingList(req.Ingredients, req.Pantry, req.Servings)
	if items == nil {
		items = []model.ShoppingListItem{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
