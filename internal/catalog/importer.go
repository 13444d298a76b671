package catalog

import (
	"context"
	"fmt"
	"log"

	"pantrypilot/internal/nutrition"
)

// Importer searches the nutrition providers and mirrors the hits into the
// local catalog so shopping-list rows can reference them by food id.
type Importer struct {
	repo      *Repository
	providers []nutrition.Provider
}

// NewImporter creates an Importer over the given providers. Providers may
// be empty; Search then only consults the local catalog.
func NewImporter(repo *Repository, providers ...nutrition.Provider) *Importer {
	return &Importer{repo: repo, providers: providers}
}

// Search queries every configured provider, upserts the results into the
// catalog, and returns the matching local foods. A single provider being
// down degrades the search instead of failing it.
func (im *Importer) Search(ctx context.Context, query string, limit int) ([]Food, error) {
	for _, p := range im.providers {
		results, err := p.SearchFoods(ctx, query, limit)
		if err != nil {
			log.Printf("Warning: nutrition provider search failed: %v", err)
			continue
		}
		for _, res := range results {
			if err := im.upsert(ctx, res); err != nil {
				return nil, err
			}
		}
	}
	return im.repo.SearchFoods(ctx, query, limit)
}

func (im *Importer) upsert(ctx context.Context, res nutrition.FoodResult) error {
	var existing *Food
	var err error
	switch res.Provider {
	case nutrition.ProviderFatSecret:
		existing, err = im.repo.GetFoodByFatSecretID(ctx, res.ExternalID)
	case nutrition.ProviderSpoonacular:
		existing, err = im.repo.GetFoodBySpoonacularID(ctx, res.ExternalID)
	default:
		return fmt.Errorf("unknown nutrition provider %q", res.Provider)
	}
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	food := &Food{Name: res.Name}
	externalID := res.ExternalID
	switch res.Provider {
	case nutrition.ProviderFatSecret:
		food.FatSecretID = &externalID
	case nutrition.ProviderSpoonacular:
		food.SpoonacularID = &externalID
	}
	if res.Aisle != "" {
		aisle := res.Aisle
		food.Aisle = &aisle
	}
	if res.FoodType != "" {
		foodType := res.FoodType
		food.FoodType = &foodType
	}

	foodID, err := im.repo.CreateFood(ctx, food)
	if err != nil {
		return err
	}

	for _, sv := range res.Servings {
		serving := &Serving{FoodID: foodID}
		if sv.MeasurementDescription != "" {
			md := sv.MeasurementDescription
			serving.MeasurementDescription = &md
		}
		if sv.ServingDescription != "" {
			sd := sv.ServingDescription
			serving.ServingDescription = &sd
		}
		if sv.NumberOfUnits != 0 {
			units := sv.NumberOfUnits
			serving.NumberOfUnits = &units
		}
		if sv.ExternalID != "" {
			id := sv.ExternalID
			serving.SpoonacularID = &id
		}
		if _, err := im.repo.AddServing(ctx, serving); err != nil {
			return err
		}
	}
	return nil
}
