package recipe

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pantrypilot/internal/catalog"
	"pantrypilot/internal/database"
)

func f64Ptr(v float64) *float64 { return &v }

func openTestRepo(t *testing.T) (*Repository, *catalog.Repository) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL), catalog.NewRepository(db.SQL)
}

func TestSaveAndGet(t *testing.T) {
	repo, foods := openTestRepo(t)
	ctx := context.Background()

	beefID, err := foods.CreateFood(ctx, &catalog.Food{Name: "Ground Beef"})
	if err != nil {
		t.Fatalf("CreateFood: %v", err)
	}
	beanID, err := foods.CreateFood(ctx, &catalog.Food{Name: "Kidney Beans"})
	if err != nil {
		t.Fatalf("CreateFood: %v", err)
	}

	id, err := repo.Save(ctx, &Recipe{
		UserID:           "user-1",
		Name:             "Chili",
		NumberOfServings: f64Ptr(6),
		Ingredients: []Ingredient{
			{FoodID: beanID, NumberOfServings: f64Ptr(1)},
			{FoodID: beefID, NumberOfServings: f64Ptr(2)},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec == nil {
		t.Fatal("expected recipe, got nil")
	}
	if rec.Name != "Chili" || *rec.NumberOfServings != 6 {
		t.Errorf("unexpected recipe: %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set on save")
	}
	if len(rec.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(rec.Ingredients))
	}
	// Positions follow insertion order.
	if rec.Ingredients[0].FoodID != beanID || rec.Ingredients[1].FoodID != beefID {
		t.Errorf("ingredients out of order: %+v", rec.Ingredients)
	}
	if rec.Ingredients[0].Position != 0 || rec.Ingredients[1].Position != 1 {
		t.Errorf("unexpected positions: %+v", rec.Ingredients)
	}
}

func TestGetMissing(t *testing.T) {
	repo, _ := openTestRepo(t)
	rec, err := repo.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil for missing recipe, got %+v", rec)
	}
}

func TestListByUser(t *testing.T) {
	repo, _ := openTestRepo(t)
	ctx := context.Background()

	older := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)
	if _, err := repo.Save(ctx, &Recipe{UserID: "user-1", Name: "Chili", CreatedAt: older}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := repo.Save(ctx, &Recipe{UserID: "user-1", Name: "Tacos", CreatedAt: newer}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := repo.Save(ctx, &Recipe{UserID: "user-2", Name: "Salad"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	recipes, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}
	if recipes[0].Name != "Tacos" || recipes[1].Name != "Chili" {
		t.Errorf("expected newest first, got %s, %s", recipes[0].Name, recipes[1].Name)
	}
	if len(recipes[0].Ingredients) != 0 {
		t.Error("expected list view without ingredients")
	}
}

func TestDeleteScopedToOwner(t *testing.T) {
	repo, _ := openTestRepo(t)
	ctx := context.Background()

	id, err := repo.Save(ctx, &Recipe{UserID: "user-1", Name: "Chili"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := repo.Delete(ctx, id, "user-2"); err != nil {
		t.Fatalf("Delete as other user: %v", err)
	}
	if rec, _ := repo.Get(ctx, id); rec == nil {
		t.Fatal("expected recipe to survive a foreign delete")
	}

	if err := repo.Delete(ctx, id, "user-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec, _ := repo.Get(ctx, id); rec != nil {
		t.Fatal("expected recipe to be gone")
	}
}
