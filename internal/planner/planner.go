// Package planner generates weekly meal-plan suggestions from the user's
// saved recipes.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pantrypilot/internal/llm"
	"pantrypilot/internal/recipe"
)

// DayPlan represents the plan for a single day. RecipeID references one of
// the user's saved recipes so the plan can be pushed onto a shopping list.
type DayPlan struct {
	Day         string `json:"day"`
	RecipeID    int64  `json:"recipe_id"`
	RecipeTitle string `json:"recipe_title"`
	Note        string `json:"note"`
}

// MealPlan represents a full weekly meal plan.
type MealPlan struct {
	Plan      []DayPlan `json:"plan"`
	TotalPrep string    `json:"total_prep_estimate"`
}

// RecipeLister provides the recipes a plan may draw from.
type RecipeLister interface {
	ListByUser(ctx context.Context, userID string) ([]recipe.Recipe, error)
}

// Planner handles the generation of meal plans.
type Planner struct {
	recipes RecipeLister
	textGen llm.TextGenerator
}

// NewPlanner creates a new Planner instance.
func NewPlanner(recipes RecipeLister, textGen llm.TextGenerator) *Planner {
	return &Planner{
		recipes: recipes,
		textGen: textGen,
	}
}

// GeneratePlan creates a meal plan from the user's saved recipes. Days
// whose suggested recipe cannot be matched back to a saved one are
// dropped rather than returned with a dangling id.
func (p *Planner) GeneratePlan(ctx context.Context, userID, userRequest string) (*MealPlan, error) {
	recipes, err := p.recipes.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("no recipes found to create a plan")
	}

	var contextBuilder strings.Builder
	byTitle := make(map[string]int64, len(recipes))
	for i, r := range recipes {
		byTitle[strings.ToLower(r.Name)] = r.ID
		servings := "unknown"
		if r.NumberOfServings != nil {
			servings = fmt.Sprintf("%g", *r.NumberOfServings)
		}
		fmt.Fprintf(&contextBuilder, "Recipe %d:\nTitle: %s\nServings: %s\n\n", i+1, r.Name, servings)
	}

	prompt := fmt.Sprintf(`
You are an expert meal planner. Based on the user's request and the provided list of recipes, create a 7-day meal plan.
Only use the recipes provided in the context below.

User Request: "%s"

Available Recipes:
%s

Instructions:
1. Select one recipe for each of the 7 days (Monday to Sunday).
2. It's okay to repeat a recipe if it fits the user's request or if there aren't enough unique recipes.
3. Use the recipe titles exactly as given.
4. Return the result strictly as a JSON object with this structure:
{
  "plan": [
    {"day": "Monday", "recipe_title": "Recipe Name", "note": "Why this was chosen"},
    ...
  ],
  "total_prep_estimate": "Summary of prep time for the week"
}

Do not include any other text or formatting in your response.
`, userRequest, contextBuilder.String())

	llmResponse, err := p.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate meal plan from LLM: %w", err)
	}

	var mealPlan MealPlan
	if err := json.Unmarshal([]byte(llmResponse), &mealPlan); err != nil {
		return nil, fmt.Errorf("failed to parse meal plan JSON: %w. Response: %s", err, llmResponse)
	}

	matched := mealPlan.Plan[:0]
	for _, day := range mealPlan.Plan {
		id, ok := byTitle[strings.ToLower(day.RecipeTitle)]
		if !ok {
			continue
		}
		day.RecipeID = id
		matched = append(matched, day)
	}
	mealPlan.Plan = matched
	if len(mealPlan.Plan) == 0 {
		return nil, fmt.Errorf("meal plan referenced no known recipes. Response: %s", llmResponse)
	}

	return &mealPlan, nil
}
