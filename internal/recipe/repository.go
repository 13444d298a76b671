package recipe

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository is a database-backed repository for recipes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts a recipe together with its ingredients in one transaction
// and returns the new recipe id.
func (r *Repository) Save(ctx context.Context, rec *Recipe) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO recipes (user_id, name, number_of_servings, created_at) VALUES (?, ?, ?, ?)`,
		rec.UserID, rec.Name, rec.NumberOfServings, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert recipe: %w", err)
	}
	recipeID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read recipe id: %w", err)
	}

	for i, ing := range rec.Ingredients {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, food_id, serving_id, number_of_servings, position)
			 VALUES (?, ?, ?, ?, ?)`,
			recipeID, ing.FoodID, ing.ServingID, ing.NumberOfServings, i); err != nil {
			return 0, fmt.Errorf("failed to insert ingredient %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit recipe: %w", err)
	}
	return recipeID, nil
}

// Get retrieves a recipe by id, ingredients included and ordered.
// Returns (nil, nil) when the recipe does not exist.
func (r *Repository) Get(ctx context.Context, id int64) (*Recipe, error) {
	var rec Recipe
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, number_of_servings, created_at FROM recipes WHERE id = ?`, id).
		Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.NumberOfServings, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, recipe_id, food_id, serving_id, number_of_servings, position
		 FROM recipe_ingredients WHERE recipe_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.RecipeID, &ing.FoodID, &ing.ServingID, &ing.NumberOfServings, &ing.Position); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		rec.Ingredients = append(rec.Ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByUser retrieves the user's recipes without ingredients, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, number_of_servings, created_at
		 FROM recipes WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var rec Recipe
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.NumberOfServings, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// Delete removes a recipe; ingredients cascade.
func (r *Repository) Delete(ctx context.Context, id int64, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}
