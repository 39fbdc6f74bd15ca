package model

// AvailableIngredient is one confirmed pantry item. Names are free text and
// compared after normalization; duplicates after user edits are tolerated,
// the first match wins in lookups.
type AvailableIngredient struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Ingredient is a recipe ingredient with its quantity per single serving.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// ShoppingListItem is the missing amount of one ingredient for a desired
// serving count. Derived data, recomputed on every change, never persisted.
type ShoppingListItem struct {
	Name        string  `json:"name"`
	AmountToBuy float64 `json:"amount_to_buy"`
	Unit        string  `json:"unit"`
}
