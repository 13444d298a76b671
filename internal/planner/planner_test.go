package planner

import (
	"context"
	"strings"
	"testing"

	"pantrypilot/internal/recipe"
)

type MockRecipeLister struct {
	Recipes []recipe.Recipe
}

func (m *MockRecipeLister) ListByUser(ctx context.Context, userID string) ([]recipe.Recipe, error) {
	return m.Recipes, nil
}

type MockTextGenerator struct {
	Response   string
	LastPrompt string
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.LastPrompt = prompt
	return m.Response, nil
}

func f64(v float64) *float64 { return &v }

func TestGeneratePlan(t *testing.T) {
	ctx := context.Background()
	lister := &MockRecipeLister{Recipes: []recipe.Recipe{
		{ID: 1, Name: "Pasta", NumberOfServings: f64(4)},
		{ID: 2, Name: "Salad", NumberOfServings: f64(2)},
	}}
	ai := &MockTextGenerator{Response: `{
		"plan": [
			{"day": "Monday", "recipe_title": "Pasta", "note": "Yum"},
			{"day": "Tuesday", "recipe_title": "salad", "note": "Light"},
			{"day": "Wednesday", "recipe_title": "Pizza", "note": "Hallucinated"}
		],
		"total_prep_estimate": "45 mins"
	}`}

	p := NewPlanner(lister, ai)
	plan, err := p.GeneratePlan(ctx, "user-1", "I want pasta")
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	if len(plan.Plan) != 2 {
		t.Fatalf("Expected unmatched day to be dropped, got %d days", len(plan.Plan))
	}
	if plan.Plan[0].RecipeID != 1 {
		t.Errorf("Expected Monday to resolve to recipe 1, got %d", plan.Plan[0].RecipeID)
	}
	if plan.Plan[1].RecipeID != 2 {
		t.Errorf("Expected case-insensitive title match for Tuesday, got %d", plan.Plan[1].RecipeID)
	}
	if plan.TotalPrep != "45 mins" {
		t.Errorf("Expected prep estimate to pass through, got '%s'", plan.TotalPrep)
	}
	if !strings.Contains(ai.LastPrompt, "Title: Pasta") {
		t.Error("Expected saved recipes in the planning prompt")
	}
	if !strings.Contains(ai.LastPrompt, "I want pasta") {
		t.Error("Expected user request in the planning prompt")
	}
}

func TestGeneratePlanNoRecipes(t *testing.T) {
	p := NewPlanner(&MockRecipeLister{}, &MockTextGenerator{})
	if _, err := p.GeneratePlan(context.Background(), "user-1", "anything"); err == nil {
		t.Fatal("Expected error when the user has no recipes")
	}
}

func TestGeneratePlanNothingMatched(t *testing.T) {
	lister := &MockRecipeLister{Recipes: []recipe.Recipe{{ID: 1, Name: "Pasta"}}}
	ai := &MockTextGenerator{Response: `{"plan": [{"day": "Monday", "recipe_title": "Pizza"}]}`}
	p := NewPlanner(lister, ai)
	if _, err := p.GeneratePlan(context.Background(), "user-1", "anything"); err == nil {
		t.Fatal("Expected error when no suggested recipe matches a saved one")
	}
}
