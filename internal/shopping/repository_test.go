package shopping

import (
	"context"
	"path/filepath"
	"testing"

	"pantrypilot/internal/catalog"
	"pantrypilot/internal/database"
	"pantrypilot/internal/recipe"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedCatalog inserts a food with one serving and returns their ids.
func seedCatalog(t *testing.T, cat *catalog.Repository, name, fatSecretID, measurement string) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	foodID, err := cat.CreateFood(ctx, &catalog.Food{Name: name, FatSecretID: strPtr(fatSecretID)})
	if err != nil {
		t.Fatalf("Failed to create food: %v", err)
	}
	servingID, err := cat.AddServing(ctx, &catalog.Serving{
		FoodID:                 foodID,
		MeasurementDescription: strPtr(measurement),
		ServingDescription:     strPtr("1 " + measurement),
		NumberOfUnits:          f64Ptr(1),
	})
	if err != nil {
		t.Fatalf("Failed to create serving: %v", err)
	}
	return foodID, servingID
}

func TestRepositoryLists(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db.SQL)
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		id, err := repo.CreateList(ctx, &ShoppingList{UserID: "u1", Name: "Groceries", IsDefault: true})
		if err != nil {
			t.Fatalf("Failed to create list: %v", err)
		}
		list, err := repo.GetList(ctx, id)
		if err != nil {
			t.Fatalf("Failed to get list: %v", err)
		}
		if list == nil || list.Name != "Groceries" || !list.IsDefault {
			t.Errorf("Unexpected list: %+v", list)
		}
	})

	t.Run("NewDefaultDemotesOld", func(t *testing.T) {
		first, err := repo.CreateList(ctx, &ShoppingList{UserID: "u2", Name: "A", IsDefault: true})
		if err != nil {
			t.Fatalf("Failed to create list: %v", err)
		}
		if _, err := repo.CreateList(ctx, &ShoppingList{UserID: "u2", Name: "B", IsDefault: true}); err != nil {
			t.Fatalf("Failed to create second default list: %v", err)
		}
		old, err := repo.GetList(ctx, first)
		if err != nil {
			t.Fatalf("Failed to re-read list: %v", err)
		}
		if old.IsDefault {
			t.Error("Expected first list to lose default status")
		}
	})

	t.Run("GetMissingReturnsNil", func(t *testing.T) {
		list, err := repo.GetList(ctx, 9999)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if list != nil {
			t.Errorf("Expected nil for missing list, got %+v", list)
		}
	})
}

func TestRepositoryItems(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db.SQL)
	cat := catalog.NewRepository(db.SQL)
	recipes := recipe.NewRepository(db.SQL)
	ctx := context.Background()

	listID, err := repo.CreateList(ctx, &ShoppingList{UserID: "u1", Name: "Groceries"})
	if err != nil {
		t.Fatalf("Failed to create list: %v", err)
	}

	foodID, servingID := seedCatalog(t, cat, "Ground Beef", "4881", "lb")

	recipeID, err := recipes.Save(ctx, &recipe.Recipe{
		UserID:           "u1",
		Name:             "Chili",
		NumberOfServings: f64Ptr(4),
		Ingredients: []recipe.Ingredient{
			{FoodID: foodID, ServingID: &servingID, NumberOfServings: f64Ptr(1)},
		},
	})
	if err != nil {
		t.Fatalf("Failed to save recipe: %v", err)
	}

	items := []*Item{
		{ListID: listID, UserID: "u1", FoodID: &foodID, ServingID: &servingID, RecipeID: &recipeID, NumberOfServings: f64Ptr(1.5)},
		{ListID: listID, UserID: "u1", Name: strPtr("birthday candles"), Notes: strPtr("blue ones")},
	}
	if err := repo.InsertItems(ctx, items); err != nil {
		t.Fatalf("Failed to insert items: %v", err)
	}
	for i, it := range items {
		if it.ID == 0 {
			t.Fatalf("Expected generated id on item %d", i)
		}
	}

	t.Run("ListItemsJoinsSummaries", func(t *testing.T) {
		got, err := repo.ListItems(ctx, listID)
		if err != nil {
			t.Fatalf("Failed to list items: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(got))
		}

		linked := got[0]
		if linked.Food == nil || linked.Food.Name != "Ground Beef" {
			t.Errorf("Expected joined food, got %+v", linked.Food)
		}
		if linked.Food.FatSecretID == nil || *linked.Food.FatSecretID != "4881" {
			t.Errorf("Expected FatSecret id '4881', got %v", linked.Food.FatSecretID)
		}
		if linked.Serving == nil || linked.Serving.MeasurementDescription == nil || *linked.Serving.MeasurementDescription != "lb" {
			t.Errorf("Expected joined serving, got %+v", linked.Serving)
		}
		if linked.Recipe == nil || linked.Recipe.Name != "Chili" {
			t.Errorf("Expected joined recipe summary, got %+v", linked.Recipe)
		}

		custom := got[1]
		if custom.Food != nil || custom.Serving != nil || custom.Recipe != nil {
			t.Errorf("Expected no joins on the custom item, got %+v", custom)
		}
		if custom.Notes == nil || *custom.Notes != "blue ones" {
			t.Errorf("Expected notes to round-trip, got %v", custom.Notes)
		}
	})

	t.Run("SetCheckedAndClearChecked", func(t *testing.T) {
		if err := repo.SetChecked(ctx, items[0].ID, true); err != nil {
			t.Fatalf("Failed to set checked: %v", err)
		}
		deleted, err := repo.DeleteChecked(ctx, listID)
		if err != nil {
			t.Fatalf("Failed to clear checked: %v", err)
		}
		if deleted != 1 {
			t.Errorf("Expected 1 deleted row, got %d", deleted)
		}
		remaining, _ := repo.ListItems(ctx, listID)
		if len(remaining) != 1 {
			t.Errorf("Expected 1 remaining item, got %d", len(remaining))
		}
	})

	t.Run("SetCheckedMissingItem", func(t *testing.T) {
		if err := repo.SetChecked(ctx, 99999, true); err == nil {
			t.Error("Expected an error for a missing item, got nil")
		}
	})

	t.Run("UpdateItemPatch", func(t *testing.T) {
		target := items[1].ID
		if err := repo.UpdateItem(ctx, target, ItemPatch{Notes: strPtr("pink ones")}); err != nil {
			t.Fatalf("Failed to patch item: %v", err)
		}
		got, err := repo.GetItem(ctx, target)
		if err != nil {
			t.Fatalf("Failed to get item: %v", err)
		}
		if got.Notes == nil || *got.Notes != "pink ones" {
			t.Errorf("Expected patched notes, got %v", got.Notes)
		}
		if got.Name == nil || *got.Name != "birthday candles" {
			t.Errorf("Expected name untouched, got %v", got.Name)
		}
	})

	t.Run("DeleteAll", func(t *testing.T) {
		if _, err := repo.DeleteAll(ctx, listID); err != nil {
			t.Fatalf("Failed to clear list: %v", err)
		}
		remaining, _ := repo.ListItems(ctx, listID)
		if len(remaining) != 0 {
			t.Errorf("Expected empty list, got %d items", len(remaining))
		}
	})
}
