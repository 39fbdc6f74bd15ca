package types

import (
	"github.com/fridgelens/backend/internal/model"
)

// GenerateRequest starts a new generation batch.
type GenerateRequest struct {
	Pantry     []model.AvailableIngredient `json:"pantry" binding:"required,min=1"`
	Count      int                         `json:"count"`
	Creativity int                         `json:"creativity"`
	MealType   model.MealTypeFilter        `json:"meal_type"`
	Language   string                      `json:"language"`
}

// GenerateMoreRequest extends an existing batch with additional recipes.
type GenerateMoreRequest struct {
	BatchID    string                      `json:"batch_id" binding:"required"`
	Pantry     []model.AvailableIngredient `json:"pantry" binding:"required,min=1"`
	Count      int                         `json:"count"`
	Creativity int                         `json:"creativity"`
	MealType   model.MealTypeFilter        `json:"meal_type"`
	Language   string                      `json:"language"`
}

// GenerateResponse acknowledges a started batch.
type GenerateResponse struct {
	BatchID string `json:"batch_id"`
	State   string `json:"state"`
}

// ServingsRequest asks how many servings the pantry supports.
type ServingsRequest struct {
	Ingredients []model.Ingredient          `json:"ingredients" binding:"required"`
	Pantry      []model.AvailableIngredient `json:"pantry"`
}

// ShoppingListRequest asks what is missing for the desired serving count.
type ShoppingListRequest struct {
	Ingredients []model.Ingredient          `json:"ingredients" binding:"required"`
	Pantry      []model.AvailableIngredient `json:"pantry"`
	Servings    float64                     `json:"servings" binding:"required,gt=0"`
}

// TranslateRequest translates a map of UI strings.
type TranslateRequest struct {
	Language string            `json:"language" binding:"required"`
	Strings  map[string]string `json:"strings" binding:"required"`
}
