package recipe

import "time"

// Ingredient is one line of a recipe: a food, an optional serving, and a
// quantity expressed in servings of that food.
type Ingredient struct {
	ID               int64    `json:"id"`
	RecipeID         int64    `json:"recipe_id"`
	FoodID           int64    `json:"food_id"`
	ServingID        *int64   `json:"serving_id,omitempty"`
	NumberOfServings *float64 `json:"number_of_servings,omitempty"`
	Position         int      `json:"position"`
}

// Recipe is a stored recipe with its base serving count and ordered
// ingredient list.
type Recipe struct {
	ID               int64        `json:"id"`
	UserID           string       `json:"user_id"`
	Name             string       `json:"name"`
	NumberOfServings *float64     `json:"number_of_servings,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	Ingredients      []Ingredient `json:"ingredients,omitempty"`
}

// Summary is the subset of recipe fields joined onto shopping-list items.
type Summary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
