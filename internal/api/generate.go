package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgelens/backend/internal/middleware"
	"github.com/fridgelens/backend/internal/model"
	"github.com/fridgelens/backend/internal/service"
	"github.com/fridgelens/backend/internal/types"
)

// batchTimeout bounds one background batch, text generation plus every
// paced image call.
const batchTimeout = 10 * time.Minute

// GenerateHandler starts generation batches and serves their snapshots.
type GenerateHandler struct {
	batch  *service.BatchService
	store  service.SnapshotStore
	logger *zap.Logger
}

// NewGenerateHandler creates a new GenerateHandler instance.
func NewGenerateHandler(batch *service.BatchService, store service.SnapshotStore, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{
		batch:  batch,
		store:  store,
		logger: logger.Named("api.generate"),
	}
}

// RegisterRoutes registers the generation routes.
func (h *GenerateHandler) RegisterRoutes(router *gin.RouterGroup, limiter *middleware.RateLimiter) {
	recipes := router.Group("/recipes")
	{
		start := recipes.Group("")
		if limiter != nil {
			start.Use(limiter.RateLimitMiddleware())
		}
		start.POST("/generate", h.Generate)
		start.POST("/generate-more", h.GenerateMore)

		recipes.GET("/batches/:id", h.GetBatch)
	}
}

// Generate starts a new batch and returns its ID. The pipeline runs in the
// background; consumers poll the batch endpoint for partial snapshots.
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req types.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batchReq, ok := h.buildBatchRequest(c, req.Pantry, req.Count, req.Creativity, req.MealType, req.Language)
	if !ok {
		return
	}

	initial := service.Snapshot{BatchID: batchReq.BatchID, State: service.BatchStateGeneratingText, Recipes: []model.Recipe{}}
	if err := h.store.Save(c.Request.Context(), initial); err != nil {
		h.logger.Error("failed to save initial snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start generation"})
		return
	}

	go h.runBatch(batchReq, nil)

	c.JSON(http.StatusAccepted, types.GenerateResponse{
		BatchID: batchReq.BatchID,
		State:   string(service.BatchStateGeneratingText),
	})
}

// GenerateMore appends additional recipes to a settled batch.
func (h *GenerateHandler) GenerateMore(c *gin.Context) {
	var req types.GenerateMoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.store.Get(c.Request.Context(), req.BatchID)
	if err != nil {
		if errors.Is(err, service.ErrBatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
			return
		}
		h.logger.Error("failed to load batch snapshot", zap.String("batch_id", req.BatchID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load batch"})
		return
	}

	switch snapshot.State {
	case service.BatchStateComplete, service.BatchStateNoFeasible:
		// settled, more recipes may be appended
	default:
		c.JSON(http.StatusConflict, gin.H{"error": "Batch is still in progress"})
		return
	}

	batchReq, ok := h.buildBatchRequest(c, req.Pantry, req.Count, req.Creativity, req.MealType, req.Language)
	if !ok {
		return
	}
	batchReq.BatchID = req.BatchID

	go h.runBatch(batchReq, snapshot.Recipes)

	c.JSON(http.StatusAccepted, types.GenerateResponse{
		BatchID: req.BatchID,
		State:   string(service.BatchStateGeneratingText),
	})
}

// GetBatch returns the latest snapshot for a batch.
func (h *GenerateHandler) GetBatch(c *gin.Context) {
	snapshot, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrBatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
			return
		}
		h.logger.Error("failed to load batch snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load batch"})
		return
	}

	resp := gin.H{
		"batch_id": snapshot.BatchID,
		"state":    snapshot.State,
		"recipes":  snapshot.Recipes,
	}
	if snapshot.State == service.BatchStateNoFeasible {
		resp["message"] = "No recipes are possible with these ingredients. Try adding more."
	}

	c.JSON(http.StatusOK, resp)
}

// buildBatchRequest validates the shared generation parameters and fills in
// their defaults. On failure it writes the error response and returns false.
func (h *GenerateHandler) buildBatchRequest(c *gin.Context, inventory []model.AvailableIngredient, count, creativity int, mealType model.MealTypeFilter, language string) (service.BatchRequest, bool) {
	if count == 0 {
		count = 3
	}
	if count < 1 || count > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 10"})
		return service.BatchRequest{}, false
	}

	if creativity == 0 {
		creativity = 3
	}
	if creativity < 1 || creativity > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "creativity must be between 1 and 5"})
		return service.BatchRequest{}, false
	}

	if !mealType.Hot && !mealType.Cold {
		mealType = model.MealTypeFilter{Hot: true, Cold: true}
	}

	return service.BatchRequest{
		BatchID:    uuid.New().String(),
		Pantry:     inventory,
		Count:      count,
		Creativity: creativity,
		MealType:   mealType,
		Language:   language,
	}, true
}

// runBatch drives the pipeline in the background, publishing every snapshot
// to the store. Pipeline errors are already reflected in the final snapshot;
// here they are only logged.
func (h *GenerateHandler) runBatch(req service.BatchRequest, existing []model.Recipe) {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	publish := func(snapshot service.Snapshot) {
		if err := h.store.Save(ctx, snapshot); err != nil {
			h.logger.Error("failed to publish snapshot",
				zap.String("batch_id", snapshot.BatchID), zap.Error(err))
		}
	}

	var err error
	if len(existing) > 0 {
		_, err = h.batch.GenerateMore(ctx, existing, req, publish)
	} else {
		_, err = h.batch.Generate(ctx, req, publish)
	}
	if err != nil && !errors.Is(err, service.ErrNoFeasibleRecipes) {
		h.logger.Error("batch failed", zap.String("batch_id", req.BatchID), zap.Error(err))
	}
}
