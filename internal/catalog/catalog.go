package catalog

// Food type values as stored by the nutrition providers.
const (
	FoodTypeBrand   = "Brand"
	FoodTypeGeneric = "Generic"
)

// Food is a catalog food, optionally carrying one external nutrition
// provider identifier. FatSecret and Spoonacular ids are disjoint in
// practice: a food comes from one provider or neither.
type Food struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	FatSecretID   *string `json:"fatsecret_id,omitempty"`
	SpoonacularID *string `json:"spoonacular_id,omitempty"`
	Aisle         *string `json:"aisle,omitempty"`
	FoodType      *string `json:"food_type,omitempty"`
}

// Serving is one purchasable/measurable unit of a food, e.g. "1 cup".
// NumberOfUnits is the scale factor from one serving to one display unit.
type Serving struct {
	ID                     int64    `json:"id"`
	FoodID                 int64    `json:"food_id"`
	MeasurementDescription *string  `json:"measurement_description,omitempty"`
	ServingDescription     *string  `json:"serving_description,omitempty"`
	NumberOfUnits          *float64 `json:"number_of_units,omitempty"`
	SpoonacularID          *string  `json:"spoonacular_id,omitempty"`
}
