package shopping

import (
	"math"
	"testing"

	"pantrypilot/internal/recipe"
)

func testRecipe(id int64, baseServings *float64, ingredients ...recipe.Ingredient) *recipe.Recipe {
	return &recipe.Recipe{
		ID:               id,
		UserID:           "user-1",
		Name:             "Chili",
		NumberOfServings: baseServings,
		Ingredients:      ingredients,
	}
}

func TestScaleIntoItems(t *testing.T) {
	const epsilon = 1e-9

	t.Run("LinearScaling", func(t *testing.T) {
		rec := testRecipe(10, f64Ptr(4),
			recipe.Ingredient{ID: 1, FoodID: 100, ServingID: i64Ptr(200), NumberOfServings: f64Ptr(1)},
		)

		doubled := ScaleIntoItems(rec, 8, []int64{1}, 5, "user-1")
		if len(doubled) != 1 {
			t.Fatalf("Expected 1 item, got %d", len(doubled))
		}
		if got := *doubled[0].NumberOfServings; math.Abs(got-2) > epsilon {
			t.Errorf("Expected doubled quantity 2, got %v", got)
		}

		same := ScaleIntoItems(rec, 4, []int64{1}, 5, "user-1")
		if got := *same[0].NumberOfServings; math.Abs(got-1) > epsilon {
			t.Errorf("Expected unchanged quantity 1, got %v", got)
		}
	})

	t.Run("EmitsReferences", func(t *testing.T) {
		rec := testRecipe(10, f64Ptr(4),
			recipe.Ingredient{ID: 1, FoodID: 100, ServingID: i64Ptr(200), NumberOfServings: f64Ptr(1)},
		)

		items := ScaleIntoItems(rec, 6, []int64{1}, 5, "user-1")
		it := items[0]
		if it.ListID != 5 || it.UserID != "user-1" {
			t.Errorf("Expected list/user to carry over, got list %d user %s", it.ListID, it.UserID)
		}
		if it.FoodID == nil || *it.FoodID != 100 {
			t.Errorf("Expected food id 100, got %v", it.FoodID)
		}
		if it.ServingID == nil || *it.ServingID != 200 {
			t.Errorf("Expected serving id 200, got %v", it.ServingID)
		}
		if it.RecipeID == nil || *it.RecipeID != 10 {
			t.Errorf("Expected recipe id 10, got %v", it.RecipeID)
		}
	})

	t.Run("ExcludedIngredientsSkipped", func(t *testing.T) {
		rec := testRecipe(10, f64Ptr(4),
			recipe.Ingredient{ID: 1, FoodID: 100, NumberOfServings: f64Ptr(1)},
			recipe.Ingredient{ID: 2, FoodID: 101, NumberOfServings: f64Ptr(2)},
			recipe.Ingredient{ID: 3, FoodID: 102, NumberOfServings: f64Ptr(3)},
		)

		items := ScaleIntoItems(rec, 4, []int64{1, 3}, 5, "user-1")
		if len(items) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(items))
		}
		if *items[0].FoodID != 100 || *items[1].FoodID != 102 {
			t.Errorf("Expected foods 100 and 102, got %d and %d", *items[0].FoodID, *items[1].FoodID)
		}
	})

	t.Run("ZeroBaseServingsTreatedAsOne", func(t *testing.T) {
		rec := testRecipe(10, f64Ptr(0),
			recipe.Ingredient{ID: 1, FoodID: 100, NumberOfServings: f64Ptr(2)},
		)

		items := ScaleIntoItems(rec, 3, []int64{1}, 5, "user-1")
		if got := *items[0].NumberOfServings; math.Abs(got-6) > epsilon {
			t.Errorf("Expected quantity 6 with base clamped to 1, got %v", got)
		}
	})

	t.Run("MissingBaseServingsTreatedAsOne", func(t *testing.T) {
		rec := testRecipe(10, nil,
			recipe.Ingredient{ID: 1, FoodID: 100, NumberOfServings: f64Ptr(2)},
		)

		items := ScaleIntoItems(rec, 3, []int64{1}, 5, "user-1")
		if got := *items[0].NumberOfServings; math.Abs(got-6) > epsilon {
			t.Errorf("Expected quantity 6 with missing base as 1, got %v", got)
		}
	})

	t.Run("NilIngredientQuantityStaysNil", func(t *testing.T) {
		rec := testRecipe(10, f64Ptr(4),
			recipe.Ingredient{ID: 1, FoodID: 100},
		)

		items := ScaleIntoItems(rec, 8, []int64{1}, 5, "user-1")
		if items[0].NumberOfServings != nil {
			t.Errorf("Expected nil quantity to stay unspecified, got %v", *items[0].NumberOfServings)
		}
	})
}

// TestChiliEndToEnd walks the worked example: Chili serves 4 with one
// ingredient at quantity 1; adding at 6 servings yields 1.5, a second
// addition at 2 servings yields 0.5, and recipe-scoped consolidation
// merges both rows into a single entry totalling 2.0.
func TestChiliEndToEnd(t *testing.T) {
	rec := testRecipe(10, f64Ptr(4),
		recipe.Ingredient{ID: 1, FoodID: 100, ServingID: i64Ptr(200), NumberOfServings: f64Ptr(1)},
	)

	first := ScaleIntoItems(rec, 6, []int64{1}, 5, "user-1")
	if len(first) != 1 || *first[0].NumberOfServings != 1.5 {
		t.Fatalf("Expected one item at 1.5, got %+v", first)
	}

	second := ScaleIntoItems(rec, 2, []int64{1}, 5, "user-1")
	if len(second) != 1 || *second[0].NumberOfServings != 0.5 {
		t.Fatalf("Expected one item at 0.5, got %+v", second)
	}

	// Materialize as stored rows with joined summaries, then consolidate.
	rowA := withRecipe(fatSecretItem(71, "beef-4881", "lb", first[0].NumberOfServings), 10, "Chili", testTime(1))
	rowB := withRecipe(fatSecretItem(72, "beef-4881", "lb", second[0].NumberOfServings), 10, "Chili", testTime(1))

	out := Consolidate([]Item{rowA, rowB}, true)
	if len(out) != 1 {
		t.Fatalf("Expected both rows to merge, got %d entries", len(out))
	}
	if got := *out[0].NumberOfServings; got != 2.0 {
		t.Errorf("Expected merged quantity 2.0, got %v", got)
	}
	if len(out[0].ConsolidatedIDs) != 2 {
		t.Errorf("Expected both raw ids, got %v", out[0].ConsolidatedIDs)
	}
}
