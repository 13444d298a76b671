package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository is a database-backed repository for foods and servings.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// CreateFood inserts a food and returns its id.
func (r *Repository) CreateFood(ctx context.Context, f *Food) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO foods (name, fatsecret_id, spoonacular_id, aisle, food_type)
		 VALUES (?, ?, ?, ?, ?)`,
		f.Name, f.FatSecretID, f.SpoonacularID, f.Aisle, f.FoodType)
	if err != nil {
		return 0, fmt.Errorf("failed to insert food: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read food id: %w", err)
	}
	return id, nil
}

// AddServing inserts a serving for an existing food and returns its id.
func (r *Repository) AddServing(ctx context.Context, s *Serving) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO servings (food_id, measurement_description, serving_description, number_of_units, spoonacular_id)
		 VALUES (?, ?, ?, ?, ?)`,
		s.FoodID, s.MeasurementDescription, s.ServingDescription, s.NumberOfUnits, s.SpoonacularID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert serving: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read serving id: %w", err)
	}
	return id, nil
}

// GetFood retrieves a food by id. Returns (nil, nil) when not found.
func (r *Repository) GetFood(ctx context.Context, id int64) (*Food, error) {
	var f Food
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, fatsecret_id, spoonacular_id, aisle, food_type FROM foods WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &f.FatSecretID, &f.SpoonacularID, &f.Aisle, &f.FoodType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get food: %w", err)
	}
	return &f, nil
}

// GetFoodByFatSecretID retrieves a food by its FatSecret identifier.
// Returns (nil, nil) when not found.
func (r *Repository) GetFoodByFatSecretID(ctx context.Context, externalID string) (*Food, error) {
	return r.getFoodByExternalID(ctx, "fatsecret_id", externalID)
}

// GetFoodBySpoonacularID retrieves a food by its Spoonacular identifier.
// Returns (nil, nil) when not found.
func (r *Repository) GetFoodBySpoonacularID(ctx context.Context, externalID string) (*Food, error) {
	return r.getFoodByExternalID(ctx, "spoonacular_id", externalID)
}

func (r *Repository) getFoodByExternalID(ctx context.Context, column, externalID string) (*Food, error) {
	var f Food
	query := fmt.Sprintf(
		`SELECT id, name, fatsecret_id, spoonacular_id, aisle, food_type FROM foods WHERE %s = ?`, column)
	err := r.db.QueryRowContext(ctx, query, externalID).
		Scan(&f.ID, &f.Name, &f.FatSecretID, &f.SpoonacularID, &f.Aisle, &f.FoodType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get food by external id: %w", err)
	}
	return &f, nil
}

// ListServings retrieves the servings of a food in insertion order.
func (r *Repository) ListServings(ctx context.Context, foodID int64) ([]Serving, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, food_id, measurement_description, serving_description, number_of_units, spoonacular_id
		 FROM servings WHERE food_id = ? ORDER BY id`, foodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list servings: %w", err)
	}
	defer rows.Close()

	var servings []Serving
	for rows.Next() {
		var s Serving
		if err := rows.Scan(&s.ID, &s.FoodID, &s.MeasurementDescription, &s.ServingDescription, &s.NumberOfUnits, &s.SpoonacularID); err != nil {
			return nil, fmt.Errorf("failed to scan serving: %w", err)
		}
		servings = append(servings, s)
	}
	return servings, rows.Err()
}

// SearchFoods retrieves foods whose name contains the query, newest first.
func (r *Repository) SearchFoods(ctx context.Context, query string, limit int) ([]Food, error) {
	if limit <= 0 {
		limit = 25
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, fatsecret_id, spoonacular_id, aisle, food_type
		 FROM foods WHERE name LIKE '%' || ? || '%' ORDER BY id DESC LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	defer rows.Close()

	var foods []Food
	for rows.Next() {
		var f Food
		if err := rows.Scan(&f.ID, &f.Name, &f.FatSecretID, &f.SpoonacularID, &f.Aisle, &f.FoodType); err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}
