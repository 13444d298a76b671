package shopping

import (
	"strings"

	"pantrypilot/internal/catalog"
)

// AisleOther is the fallback aisle for foods without aisle metadata and
// for custom items. Its group always sorts last in aisle mode.
const AisleOther = "Other"

const aislePackagedFoods = "Packaged Foods"

// ResolveAisle maps a food's catalog metadata to a display aisle. A food's
// aisle field may hold several semicolon-separated names; the first
// non-empty one wins. Branded foods without aisle data go to
// "Packaged Foods", everything else (including items with no food) to
// "Other".
func ResolveAisle(f *catalog.Food) string {
	if f == nil {
		return AisleOther
	}
	if f.Aisle != nil {
		for _, token := range strings.Split(*f.Aisle, ";") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}
	if f.FoodType != nil && *f.FoodType == catalog.FoodTypeBrand {
		return aislePackagedFoods
	}
	return AisleOther
}
