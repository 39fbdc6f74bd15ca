package model

// Recipe is one generated recipe. The generation pipeline treats it as
// immutable except for ImageURL, which is attached after the dish image
// has been generated.
type Recipe struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Calories     float64      `json:"calories,omitempty"`
	ImageURL     string       `json:"image_url,omitempty"`
}

// Clone returns a deep copy of the recipe.
func (r Recipe) Clone() Recipe {
	c := r
	c.Ingredients = make([]Ingredient, len(r.Ingredients))
	copy(c.Ingredients, r.Ingredients)
	c.Instructions = make([]string, len(r.Instructions))
	copy(c.Instructions, r.Instructions)
	return c
}

// CloneRecipes deep-copies a recipe list. Snapshot publication hands these
// copies to consumers so they never read a list the pipeline still writes to.
func CloneRecipes(recipes []Recipe) []Recipe {
	out := make([]Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = r.Clone()
	}
	return out
}

// MealTypeFilter restricts generation to hot and/or cold dishes.
type MealTypeFilter struct {
	Hot  bool `json:"hot"`
	Cold bool `json:"cold"`
}
