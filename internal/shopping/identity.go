package shopping

import (
	"fmt"
	"strconv"
)

// ConsolidationKey maps a raw item to the key deciding which rows merge.
// The second return value is false when the item is unkeyable: custom items
// (no linked food) never consolidate, and catalog items only consolidate
// when both the food and its serving identify themselves through the same
// nutrition provider. Notes participate in the key because a note like
// "organic only" distinguishes otherwise-identical purchases.
//
// With scopeByRecipe set, the key is prefixed with the originating recipe
// so the same food pulled in by two recipes never merges across them.
func ConsolidationKey(it Item, scopeByRecipe bool) (string, bool) {
	if it.Food == nil {
		return "", false
	}

	notes := ""
	if it.Notes != nil {
		notes = *it.Notes
	}

	var key string
	switch {
	case it.Food.FatSecretID != nil && it.Serving != nil && it.Serving.MeasurementDescription != nil:
		key = fmt.Sprintf("fatsecret:%s:%s:notes:%s", *it.Food.FatSecretID, *it.Serving.MeasurementDescription, notes)
	case it.Food.SpoonacularID != nil && it.Serving != nil && it.Serving.SpoonacularID != nil:
		key = fmt.Sprintf("spoonacular:%s:%s:notes:%s", *it.Food.SpoonacularID, *it.Serving.SpoonacularID, notes)
	default:
		return "", false
	}

	if scopeByRecipe {
		recipeID := "none"
		if it.RecipeID != nil {
			recipeID = strconv.FormatInt(*it.RecipeID, 10)
		}
		key = "recipe:" + recipeID + ":" + key
	}

	return key, true
}
