package shopping

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pantrypilot/internal/catalog"
	"pantrypilot/internal/recipe"
)

// Repository handles persistence of shopping lists and their raw items.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// CreateList inserts a list and returns its id. When the new list is the
// default, any previous default of the user is demoted first.
func (r *Repository) CreateList(ctx context.Context, list *ShoppingList) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if list.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE shopping_lists SET is_default = 0 WHERE user_id = ? AND is_default = 1`,
			list.UserID); err != nil {
			return 0, fmt.Errorf("failed to demote previous default list: %w", err)
		}
	}

	createdAt := list.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO shopping_lists (user_id, name, is_default, created_at) VALUES (?, ?, ?, ?)`,
		list.UserID, list.Name, list.IsDefault, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read list id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit shopping list: %w", err)
	}
	return id, nil
}

// GetList retrieves a list by id. Returns (nil, nil) when not found.
func (r *Repository) GetList(ctx context.Context, id int64) (*ShoppingList, error) {
	var list ShoppingList
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, is_default, created_at FROM shopping_lists WHERE id = ?`, id).
		Scan(&list.ID, &list.UserID, &list.Name, &list.IsDefault, &list.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}
	return &list, nil
}

// ListsByUser retrieves all lists of a user, default first, then oldest first.
func (r *Repository) ListsByUser(ctx context.Context, userID string) ([]ShoppingList, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, is_default, created_at
		 FROM shopping_lists WHERE user_id = ? ORDER BY is_default DESC, created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	defer rows.Close()

	var lists []ShoppingList
	for rows.Next() {
		var list ShoppingList
		if err := rows.Scan(&list.ID, &list.UserID, &list.Name, &list.IsDefault, &list.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list: %w", err)
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// RenameList updates a list's display name.
func (r *Repository) RenameList(ctx context.Context, id int64, name string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE shopping_lists SET name = ? WHERE id = ?`, name, id); err != nil {
		return fmt.Errorf("failed to rename shopping list: %w", err)
	}
	return nil
}

// PromoteDefault makes the given list the user's default, demoting any
// previous one in the same transaction.
func (r *Repository) PromoteDefault(ctx context.Context, userID string, listID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE shopping_lists SET is_default = 0 WHERE user_id = ? AND is_default = 1`, userID); err != nil {
		return fmt.Errorf("failed to demote previous default list: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE shopping_lists SET is_default = 1 WHERE id = ? AND user_id = ?`, listID, userID); err != nil {
		return fmt.Errorf("failed to promote default list: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit default change: %w", err)
	}
	return nil
}

// DeleteList removes a list; its items cascade.
func (r *Repository) DeleteList(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}

const itemSelect = `
SELECT i.id, i.list_id, i.user_id, i.name, i.food_id, i.serving_id, i.recipe_id,
       i.number_of_servings, i.is_checked, i.notes, i.created_at,
       f.name, f.fatsecret_id, f.spoonacular_id, f.aisle, f.food_type,
       s.measurement_description, s.serving_description, s.number_of_units, s.spoonacular_id,
       r.name, r.created_at
FROM shopping_list_items i
LEFT JOIN foods f ON f.id = i.food_id
LEFT JOIN servings s ON s.id = i.serving_id
LEFT JOIN recipes r ON r.id = i.recipe_id`

// ListItems retrieves every raw item of a list in insertion order, with
// food, serving and recipe summaries joined on. The read is a single
// point-in-time snapshot; callers re-read after bulk mutations.
func (r *Repository) ListItems(ctx context.Context, listID int64) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, itemSelect+` WHERE i.list_id = ? ORDER BY i.created_at, i.id`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// GetItem retrieves one raw item with its joined summaries.
// Returns (nil, nil) when not found.
func (r *Repository) GetItem(ctx context.Context, id int64) (*Item, error) {
	rows, err := r.db.QueryContext(ctx, itemSelect+` WHERE i.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanItem(rows)
}

func scanItem(rows *sql.Rows) (*Item, error) {
	var it Item
	var foodName, fatSecretID, spoonacularID, aisle, foodType *string
	var measurement, servingDesc, servingSpoonID *string
	var numberOfUnits *float64
	var recipeName *string
	var recipeCreatedAt *time.Time

	if err := rows.Scan(
		&it.ID, &it.ListID, &it.UserID, &it.Name, &it.FoodID, &it.ServingID, &it.RecipeID,
		&it.NumberOfServings, &it.IsChecked, &it.Notes, &it.CreatedAt,
		&foodName, &fatSecretID, &spoonacularID, &aisle, &foodType,
		&measurement, &servingDesc, &numberOfUnits, &servingSpoonID,
		&recipeName, &recipeCreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	if it.FoodID != nil && foodName != nil {
		it.Food = &catalog.Food{
			ID:            *it.FoodID,
			Name:          *foodName,
			FatSecretID:   fatSecretID,
			SpoonacularID: spoonacularID,
			Aisle:         aisle,
			FoodType:      foodType,
		}
	}
	if it.ServingID != nil && (measurement != nil || servingDesc != nil || numberOfUnits != nil || servingSpoonID != nil) {
		it.Serving = &catalog.Serving{
			ID:                     *it.ServingID,
			MeasurementDescription: measurement,
			ServingDescription:     servingDesc,
			NumberOfUnits:          numberOfUnits,
			SpoonacularID:          servingSpoonID,
		}
		if it.FoodID != nil {
			it.Serving.FoodID = *it.FoodID
		}
	}
	if it.RecipeID != nil && recipeName != nil && recipeCreatedAt != nil {
		it.Recipe = &recipe.Summary{
			ID:        *it.RecipeID,
			Name:      *recipeName,
			CreatedAt: *recipeCreatedAt,
		}
	}
	return &it, nil
}

// InsertItems persists new raw items in one transaction, setting the
// generated id on each.
func (r *Repository) InsertItems(ctx context.Context, items []*Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, it := range items {
		createdAt := it.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO shopping_list_items
			 (list_id, user_id, name, food_id, serving_id, recipe_id, number_of_servings, is_checked, notes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			it.ListID, it.UserID, it.Name, it.FoodID, it.ServingID, it.RecipeID,
			it.NumberOfServings, it.IsChecked, it.Notes, createdAt)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read item id: %w", err)
		}
		it.ID = id
		it.CreatedAt = createdAt
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}
	return nil
}

// ItemPatch carries the editable fields of a raw item; nil leaves a field
// untouched.
type ItemPatch struct {
	Name  *string `json:"name"`
	Notes *string `json:"notes"`
}

// UpdateItem applies a name/notes patch to one raw item.
func (r *Repository) UpdateItem(ctx context.Context, id int64, patch ItemPatch) error {
	if patch.Name == nil && patch.Notes == nil {
		return nil
	}

	query := `UPDATE shopping_list_items SET `
	var args []any
	if patch.Name != nil {
		query += `name = ?`
		args = append(args, *patch.Name)
	}
	if patch.Notes != nil {
		if len(args) > 0 {
			query += `, `
		}
		query += `notes = ?`
		args = append(args, *patch.Notes)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// SetChecked updates only the checked flag of one raw item. Implements
// CheckedUpdater for PropagateChecked.
func (r *Repository) SetChecked(ctx context.Context, id int64, checked bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shopping_list_items SET is_checked = ? WHERE id = ?`, checked, id)
	if err != nil {
		return fmt.Errorf("failed to set checked state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d not found", id)
	}
	return nil
}

// DeleteItem removes one raw item.
func (r *Repository) DeleteItem(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_list_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// DeleteChecked removes every checked item of a list and reports how many
// rows went away.
func (r *Repository) DeleteChecked(ctx context.Context, listID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_list_items WHERE list_id = ? AND is_checked = 1`, listID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear checked items: %w", err)
	}
	return res.RowsAffected()
}

// DeleteAll removes every item of a list.
func (r *Repository) DeleteAll(ctx context.Context, listID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_list_items WHERE list_id = ?`, listID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear items: %w", err)
	}
	return res.RowsAffected()
}
