package service

import (
	"context"

	"github.com/fridgelens/backend/internal/model"
)

// GenerateRecipesRequest carries everything one text-generation call needs.
type GenerateRecipesRequest struct {
	Pantry       []model.AvailableIngredient
	Count        int
	Creativity   int // 1 (classic) .. 5 (adventurous)
	MealType     model.MealTypeFilter
	Language     string
	ExcludeNames []string
}

// IngredientIdentifier recognizes pantry ingredients from photos.
type IngredientIdentifier interface {
	IdentifyIngredients(ctx context.Context, images [][]byte) ([]model.AvailableIngredient, error)
}

// RecipeGenerator produces candidate recipes from a pantry. An empty result
// is valid and means no feasible recipes, not an error.
type RecipeGenerator interface {
	GenerateRecipes(ctx context.Context, req GenerateRecipesRequest) ([]model.Recipe, error)
}

// DishImageGenerator renders one dish image per recipe, returned as a
// self-contained URL (data URI, or an object-store URL when configured).
type DishImageGenerator interface {
	GenerateDishImage(ctx context.Context, name, description string) (string, error)
}

// Translator translates a map of UI strings into the target language,
// preserving keys.
type Translator interface {
	TranslateStrings(ctx context.Context, language string, strings map[string]string) (map[string]string, error)
}
