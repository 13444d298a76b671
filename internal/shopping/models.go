package shopping

import (
	"encoding/json"
	"fmt"
	"time"

	"pantrypilot/internal/catalog"
	"pantrypilot/internal/recipe"
)

// ShoppingList is a user's shopping list. At most one list per user is the
// default; the database enforces that with a partial unique index.
type ShoppingList struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is a raw, persisted shopping-list row. Exactly one of Name (custom
// item) or FoodID (catalog-linked item) is expected to be set; RecipeID is
// set only when the row came from a recipe-ingredient expansion.
type Item struct {
	ID               int64     `json:"id"`
	ListID           int64     `json:"list_id"`
	UserID           string    `json:"user_id"`
	Name             *string   `json:"name,omitempty"`
	FoodID           *int64    `json:"food_id,omitempty"`
	ServingID        *int64    `json:"serving_id,omitempty"`
	RecipeID         *int64    `json:"recipe_id,omitempty"`
	NumberOfServings *float64  `json:"number_of_servings,omitempty"`
	IsChecked        bool      `json:"is_checked"`
	Notes            *string   `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`

	// Joined summaries, populated on reads from the item store.
	Food    *catalog.Food    `json:"food,omitempty"`
	Serving *catalog.Serving `json:"serving,omitempty"`
	Recipe  *recipe.Summary  `json:"recipe,omitempty"`
}

// ConsolidatedItem is a derived, display-only aggregate of one or more raw
// items believed to represent the same purchase. It carries the fields of a
// representative member with NumberOfServings recomputed to the members'
// sum (nil quantities count as 0). ConsolidatedIDs is never empty.
type ConsolidatedItem struct {
	Item
	ConsolidatedIDs []int64 `json:"consolidated_ids"`
}

// GroupKind discriminates group keys: recipe groups, the two reserved
// sentinel groups of recipe mode, and aisle groups of aisle mode.
type GroupKind int

const (
	GroupRecipe GroupKind = iota
	GroupOther
	GroupCustom
	GroupAisle
)

// GroupKey identifies one display group. Modeling the sentinels as their
// own kinds keeps the "always sort last" rules a switch over kinds instead
// of string comparisons.
type GroupKey struct {
	Kind     GroupKind `json:"-"`
	RecipeID int64     `json:"-"`
	Aisle    string    `json:"-"`
}

// String renders the key in its wire form.
func (k GroupKey) String() string {
	switch k.Kind {
	case GroupRecipe:
		return fmt.Sprintf("recipe:%d", k.RecipeID)
	case GroupOther:
		return "OTHER"
	case GroupCustom:
		return "CUSTOM"
	default:
		return k.Aisle
	}
}

// MarshalJSON emits the wire form of the key.
func (k GroupKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Group is a named, ordered bucket of consolidated items for display.
type Group struct {
	Key   GroupKey           `json:"key"`
	Name  string             `json:"name"`
	Items []ConsolidatedItem `json:"items"`
}
