package shopping

import (
	"time"

	"pantrypilot/internal/catalog"
	"pantrypilot/internal/recipe"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(i int64) *int64     { return &i }

// fatSecretItem builds a catalog-linked item identified through FatSecret.
func fatSecretItem(id int64, foodID, measurement string, qty *float64) Item {
	return Item{
		ID:               id,
		NumberOfServings: qty,
		FoodID:           i64Ptr(1),
		ServingID:        i64Ptr(1),
		Food: &catalog.Food{
			ID:          1,
			Name:        "food-" + foodID,
			FatSecretID: strPtr(foodID),
		},
		Serving: &catalog.Serving{
			ID:                     1,
			MeasurementDescription: strPtr(measurement),
		},
	}
}

// spoonacularItem builds a catalog-linked item identified through
// Spoonacular.
func spoonacularItem(id int64, foodID, servingID string, qty *float64) Item {
	return Item{
		ID:               id,
		NumberOfServings: qty,
		FoodID:           i64Ptr(2),
		ServingID:        i64Ptr(2),
		Food: &catalog.Food{
			ID:            2,
			Name:          "food-" + foodID,
			SpoonacularID: strPtr(foodID),
		},
		Serving: &catalog.Serving{
			ID:            2,
			SpoonacularID: strPtr(servingID),
		},
	}
}

// customItem builds a free-text item with no food link.
func customItem(id int64, name string) Item {
	return Item{ID: id, Name: strPtr(name)}
}

func testTime(day int) time.Time {
	return time.Date(2026, time.January, day, 0, 0, 0, 0, time.UTC)
}

func withRecipe(it Item, recipeID int64, name string, createdAt time.Time) Item {
	it.RecipeID = i64Ptr(recipeID)
	it.Recipe = &recipe.Summary{ID: recipeID, Name: name, CreatedAt: createdAt}
	return it
}
