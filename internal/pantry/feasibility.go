// Package pantry reconciles recipe ingredient requirements against a user's
// pantry inventory. All functions are pure: outputs depend only on their
// arguments and can be recomputed on every serving-count or pantry change.
package pantry

import (
	"math"

	"github.com/fridgelens/backend/internal/model"
)

// stapleOnlyCeiling is returned by MaxServings when a recipe consists solely
// of pantry staples. Effectively unlimited, bounded for UI purposes.
const stapleOnlyCeiling = 20

// findMatch returns the first pantry entry whose normalized name equals the
// normalized recipe ingredient name.
func findMatch(name string, pantry []model.AvailableIngredient) (model.AvailableIngredient, bool) {
	n := Normalize(name)
	for _, p := range pantry {
		if Normalize(p.Name) == n {
			return p, true
		}
	}
	return model.AvailableIngredient{}, false
}

// IsAvailable reports whether a single recipe ingredient is covered by the
// pantry: either a staple, or present by normalized name with a compatible
// unit. Quantity is deliberately ignored; this is the presence rule the batch
// pipeline filters candidate recipes with.
func IsAvailable(ing model.Ingredient, pantry []model.AvailableIngredient) bool {
	if IsStaple(ing.Name) {
		return true
	}
	match, ok := findMatch(ing.Name, pantry)
	if !ok {
		return false
	}
	return UnitsCompatible(ing.Unit, match.Unit)
}

// MaxServings computes the maximum integral serving count the pantry
// supports for the given per-serving ingredient list. A missing non-staple
// ingredient or an incompatible unit makes the whole recipe infeasible and
// returns 0 immediately. A recipe of staples only returns the fixed ceiling.
func MaxServings(ingredients []model.Ingredient, pantry []model.AvailableIngredient) int {
	min := -1
	for _, ing := range ingredients {
		if IsStaple(ing.Name) {
			continue
		}
		match, ok := findMatch(ing.Name, pantry)
		if !ok {
			return 0
		}
		if !UnitsCompatible(ing.Unit, match.Unit) {
			return 0
		}
		if ing.Quantity <= 0 {
			continue
		}
		servings := int(math.Floor(match.Quantity / ing.Quantity))
		if min < 0 || servings < min {
			min = servings
		}
	}
	if min < 0 {
		return stapleOnlyCeiling
	}
	return min
}

// ShoppingList computes what must be bought to cook desiredServings
// servings. Items keep the recipe's original name and unit spelling and
// follow recipe ingredient order. Amounts are rounded to two decimals at
// emission only; comparisons use full precision.
func ShoppingList(ingredients []model.Ingredient, pantry []model.AvailableIngredient, desiredServings float64) []model.ShoppingListItem {
	var items []model.ShoppingListItem
	for _, ing := range ingredients {
		if IsStaple(ing.Name) {
			continue
		}
		needed := ing.Quantity * desiredServings
		available := 0.0
		if match, ok := findMatch(ing.Name, pantry); ok && UnitsCompatible(ing.Unit, match.Unit) {
			available = match.Quantity
		}
		if needed > available {
			items = append(items, model.ShoppingListItem{
				Name:        ing.Name,
				AmountToBuy: round2(needed - available),
				Unit:        ing.Unit,
			})
		}
	}
	return items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
