package shopping

import (
	"time"

	"pantrypilot/internal/recipe"
)

// ScaleIntoItems expands the included ingredients of a recipe into new raw
// shopping-list rows at the requested serving count. Quantities scale
// linearly: ingredient quantity * target servings / recipe base servings,
// with a missing or non-positive base treated as 1. No rounding happens
// here; display rounding belongs to the serving's unit multiplier.
//
// Re-adding the same recipe produces additional rows; merging happens only
// at display time via Consolidate, scoped per recipe.
func ScaleIntoItems(rec *recipe.Recipe, numberOfServings float64, includedIngredientIDs []int64, listID int64, userID string) []Item {
	base := 1.0
	if rec.NumberOfServings != nil && *rec.NumberOfServings > 0 {
		base = *rec.NumberOfServings
	}

	included := make(map[int64]struct{}, len(includedIngredientIDs))
	for _, id := range includedIngredientIDs {
		included[id] = struct{}{}
	}

	now := time.Now().UTC()
	items := make([]Item, 0, len(includedIngredientIDs))
	for _, ing := range rec.Ingredients {
		if _, ok := included[ing.ID]; !ok {
			continue
		}

		var quantity *float64
		if ing.NumberOfServings != nil {
			scaled := *ing.NumberOfServings * numberOfServings / base
			quantity = &scaled
		}

		foodID := ing.FoodID
		recipeID := rec.ID
		items = append(items, Item{
			ListID:           listID,
			UserID:           userID,
			FoodID:           &foodID,
			ServingID:        ing.ServingID,
			RecipeID:         &recipeID,
			NumberOfServings: quantity,
			CreatedAt:        now,
		})
	}

	return items
}
