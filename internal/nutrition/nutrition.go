// Package nutrition holds the clients for the two external nutrition-data
// providers. Their identifier schemes are disjoint; a catalog food carries
// an id from at most one of them.
package nutrition

import "context"

// Provider names as stored on catalog foods.
const (
	ProviderFatSecret   = "fatsecret"
	ProviderSpoonacular = "spoonacular"
)

// ServingResult is one serving of a provider food. ExternalID is set only
// by providers that identify servings (Spoonacular); FatSecret servings are
// identified by their measurement description instead.
type ServingResult struct {
	ExternalID             string  `json:"external_id,omitempty"`
	MeasurementDescription string  `json:"measurement_description,omitempty"`
	ServingDescription     string  `json:"serving_description,omitempty"`
	NumberOfUnits          float64 `json:"number_of_units,omitempty"`
}

// FoodResult is a provider-neutral food search hit.
type FoodResult struct {
	Provider   string          `json:"provider"`
	ExternalID string          `json:"external_id"`
	Name       string          `json:"name"`
	Aisle      string          `json:"aisle,omitempty"`
	FoodType   string          `json:"food_type,omitempty"`
	Servings   []ServingResult `json:"servings,omitempty"`
}

// Provider searches a nutrition database for foods.
type Provider interface {
	SearchFoods(ctx context.Context, query string, limit int) ([]FoodResult, error)
}
