package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fridgelens/backend/internal/model"
	"github.com/fridgelens/backend/internal/pantry"
)

// BatchState is the pipeline state recorded in each published snapshot.
type BatchState string

const (
	BatchStateGeneratingText   BatchState = "generating_text"
	BatchStateGeneratingImages BatchState = "generating_images"
	BatchStateComplete         BatchState = "complete"
	BatchStateNoFeasible       BatchState = "no_feasible_recipes"
	BatchStateError            BatchState = "error"
)

// Snapshot is one immutable publication of a batch's progress. The recipe
// list is a deep copy; consumers read it without synchronizing against the
// still-running pipeline.
type Snapshot struct {
	BatchID string         `json:"batch_id"`
	State   BatchState     `json:"state"`
	Recipes []model.Recipe `json:"recipes"`
	Error   string         `json:"error,omitempty"`
}

// PublishFunc receives each snapshot as the pipeline progresses.
type PublishFunc func(Snapshot)

// Sleeper abstracts the inter-image pacing delay so tests run without real
// timers.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

// realSleeper waits on the wall clock but wakes up on context cancellation.
type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// imageDelay is the fixed pause between consecutive image-generation calls,
// sized to stay under the image service's request-rate limits. Deliberately
// not adaptive: no backoff, no rate-limit-response detection.
const imageDelay = 1500 * time.Millisecond

// BatchRequest starts one generation batch.
type BatchRequest struct {
	BatchID    string
	Pantry     []model.AvailableIngredient
	Count      int
	Creativity int
	MealType   model.MealTypeFilter
	Language   string
}

// BatchService orchestrates one generation batch: a single text-generation
// call, a hard ingredient-presence filter, then sequential image generation
// with fixed pacing and per-item failure isolation. One logical thread of
// control per batch; the only observable concurrency effect is snapshot
// publication.
type BatchService struct {
	generator RecipeGenerator
	imager    DishImageGenerator
	sleeper   Sleeper
	delay     time.Duration
	logger    *zap.Logger
}

// NewBatchService creates a new BatchService instance.
func NewBatchService(generator RecipeGenerator, imager DishImageGenerator, logger *zap.Logger) *BatchService {
	return &BatchService{
		generator: generator,
		imager:    imager,
		sleeper:   realSleeper{},
		delay:     imageDelay,
		logger:    logger.Named("batch"),
	}
}

// WithSleeper replaces the pacing sleeper. Tests use a recording no-op.
func (s *BatchService) WithSleeper(sleeper Sleeper) *BatchService {
	s.sleeper = sleeper
	return s
}

// Generate runs a full batch. It returns the final recipe list; partial
// progress is delivered through publish. Only the text-generation step can
// fail the batch: ErrNoFeasibleRecipes when nothing survives the filter, or
// the generation/parse error itself. Image failures never abort the batch.
func (s *BatchService) Generate(ctx context.Context, req BatchRequest, publish PublishFunc) ([]model.Recipe, error) {
	return s.run(ctx, req, nil, publish)
}

// GenerateMore extends an existing batch with additional recipes, asking the
// text step to avoid the names already produced. New recipes are filtered
// and imaged exactly like a fresh batch and appended; previously imaged
// recipes are untouched.
func (s *BatchService) GenerateMore(ctx context.Context, existing []model.Recipe, req BatchRequest, publish PublishFunc) ([]model.Recipe, error) {
	return s.run(ctx, req, existing, publish)
}

func (s *BatchService) run(ctx context.Context, req BatchRequest, existing []model.Recipe, publish PublishFunc) ([]model.Recipe, error) {
	if publish == nil {
		publish = func(Snapshot) {}
	}

	excludeNames := make([]string, 0, len(existing))
	for _, r := range existing {
		excludeNames = append(excludeNames, r.Name)
	}

	publish(Snapshot{BatchID: req.BatchID, State: BatchStateGeneratingText, Recipes: model.CloneRecipes(existing)})

	candidates, err := s.generator.GenerateRecipes(ctx, GenerateRecipesRequest{
		Pantry:       req.Pantry,
		Count:        req.Count,
		Creativity:   req.Creativity,
		MealType:     req.MealType,
		Language:     req.Language,
		ExcludeNames: excludeNames,
	})
	if err != nil {
		s.logger.Error("text generation failed", zap.String("batch_id", req.BatchID), zap.Error(err))
		publish(Snapshot{BatchID: req.BatchID, State: BatchStateError, Recipes: model.CloneRecipes(existing), Error: err.Error()})
		return nil, fmt.Errorf("text generation failed: %w", err)
	}

	fresh := s.filter(req.BatchID, candidates, req.Pantry)
	if len(fresh) == 0 {
		publish(Snapshot{BatchID: req.BatchID, State: BatchStateNoFeasible, Recipes: model.CloneRecipes(existing)})
		return nil, ErrNoFeasibleRecipes
	}

	recipes := append(model.CloneRecipes(existing), fresh...)
	publish(Snapshot{BatchID: req.BatchID, State: BatchStateGeneratingImages, Recipes: model.CloneRecipes(recipes)})

	// Sequential by design: one in-flight image request bounds the load on
	// the rate-limited image service.
	start := len(existing)
	for i := start; i < len(recipes); i++ {
		imageURL, err := s.imager.GenerateDishImage(ctx, recipes[i].Name, recipes[i].Description)
		if err != nil {
			// Isolated: this recipe stays without an image, the batch goes on.
			s.logger.Warn("dish image generation failed",
				zap.String("batch_id", req.BatchID), zap.String("recipe", recipes[i].Name), zap.Error(err))
		} else {
			recipes[i].ImageURL = imageURL
		}

		if i < len(recipes)-1 {
			publish(Snapshot{BatchID: req.BatchID, State: BatchStateGeneratingImages, Recipes: model.CloneRecipes(recipes)})
			s.sleeper.Sleep(ctx, s.delay)
		}
	}

	publish(Snapshot{BatchID: req.BatchID, State: BatchStateComplete, Recipes: model.CloneRecipes(recipes)})
	s.logger.Info("batch complete",
		zap.String("batch_id", req.BatchID), zap.Int("candidates", len(candidates)), zap.Int("recipes", len(recipes)))
	return recipes, nil
}

// filter keeps a candidate only if every ingredient is a pantry staple or
// present in the pantry by the feasibility matching rule. Presence only:
// quantity shortfalls are allowed, missing ingredients are not.
func (s *BatchService) filter(batchID string, candidates []model.Recipe, inventory []model.AvailableIngredient) []model.Recipe {
	kept := make([]model.Recipe, 0, len(candidates))
	for _, r := range candidates {
		ok := true
		for _, ing := range r.Ingredients {
			if !pantry.IsAvailable(ing, inventory) {
				s.logger.Debug("dropping recipe with unavailable ingredient",
					zap.String("batch_id", batchID), zap.String("recipe", r.Name), zap.String("ingredient", ing.Name))
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, r)
		}
	}
	return kept
}
