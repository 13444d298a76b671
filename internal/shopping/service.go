package shopping

import (
	"context"
	"errors"
	"fmt"

	"pantrypilot/internal/recipe"
)

// Service-level precondition failures, all recoverable by the caller.
var (
	ErrListNotFound       = errors.New("shopping list not found")
	ErrItemNotFound       = errors.New("shopping list item not found")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrNewDefaultRequired = errors.New("deleting the default list requires choosing a new default")
	ErrInvalidItem        = errors.New("item must have either a custom name or a food reference")
	ErrInvalidServings    = errors.New("number of servings must be positive")
)

// RecipeSource provides recipes for scaling; the service never mutates them.
type RecipeSource interface {
	Get(ctx context.Context, id int64) (*recipe.Recipe, error)
}

// Service orchestrates the shopping-list engine against the item store and
// the recipe source.
type Service struct {
	repo    *Repository
	recipes RecipeSource
}

// NewService creates a new shopping Service.
func NewService(repo *Repository, recipes RecipeSource) *Service {
	return &Service{repo: repo, recipes: recipes}
}

// CreateList creates a list for the user.
func (s *Service) CreateList(ctx context.Context, userID, name string, isDefault bool) (*ShoppingList, error) {
	list := &ShoppingList{UserID: userID, Name: name, IsDefault: isDefault}
	id, err := s.repo.CreateList(ctx, list)
	if err != nil {
		return nil, err
	}
	return s.repo.GetList(ctx, id)
}

// Lists returns the user's lists.
func (s *Service) Lists(ctx context.Context, userID string) ([]ShoppingList, error) {
	return s.repo.ListsByUser(ctx, userID)
}

// RenameList renames a list owned by the user.
func (s *Service) RenameList(ctx context.Context, userID string, listID int64, name string) error {
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return err
	}
	return s.repo.RenameList(ctx, listID, name)
}

// SetDefaultList makes the given list the user's default.
func (s *Service) SetDefaultList(ctx context.Context, userID string, listID int64) error {
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return err
	}
	return s.repo.PromoteDefault(ctx, userID, listID)
}

// DeleteList deletes a list. Deleting the user's default list requires a
// replacement default: newDefaultID must name another list of the same
// user, which is promoted before the delete. Without one the call fails
// with ErrNewDefaultRequired; the engine never picks a default on its own.
func (s *Service) DeleteList(ctx context.Context, userID string, listID, newDefaultID int64) error {
	list, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return err
	}

	if list.IsDefault {
		if newDefaultID == 0 || newDefaultID == listID {
			return ErrNewDefaultRequired
		}
		if _, err := s.ownedList(ctx, userID, newDefaultID); err != nil {
			return fmt.Errorf("new default: %w", err)
		}
		if err := s.repo.PromoteDefault(ctx, userID, newDefaultID); err != nil {
			return err
		}
	}

	return s.repo.DeleteList(ctx, listID)
}

// Items returns the raw rows of a list.
func (s *Service) Items(ctx context.Context, userID string, listID int64) ([]Item, error) {
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, listID)
}

// GroupedItems reads the list, consolidates it and partitions the result
// for display. Recipe mode consolidates scoped by recipe so every line
// stays attributable to its recipe.
func (s *Service) GroupedItems(ctx context.Context, userID string, listID int64, mode GroupMode) ([]Group, error) {
	items, err := s.Items(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	consolidated := Consolidate(items, mode == GroupModeRecipe)
	return GroupItems(consolidated, mode)
}

// AddItem validates and persists one manually entered row: either a custom
// text item or a catalog-linked one, never both and never neither.
func (s *Service) AddItem(ctx context.Context, userID string, item *Item) (*Item, error) {
	if _, err := s.ownedList(ctx, userID, item.ListID); err != nil {
		return nil, err
	}
	hasName := item.Name != nil && *item.Name != ""
	hasFood := item.FoodID != nil
	if hasName == hasFood {
		return nil, ErrInvalidItem
	}
	if item.NumberOfServings != nil && *item.NumberOfServings < 0 {
		return nil, ErrInvalidServings
	}

	item.UserID = userID
	if err := s.repo.InsertItems(ctx, []*Item{item}); err != nil {
		return nil, err
	}
	return item, nil
}

// AddRecipe scales the included ingredients of a recipe to the requested
// serving count and appends the resulting rows to the list. Returns the
// inserted rows with their ids set.
func (s *Service) AddRecipe(ctx context.Context, userID string, listID, recipeID int64, numberOfServings float64, includedIngredientIDs []int64) ([]*Item, error) {
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}
	if numberOfServings <= 0 {
		return nil, ErrInvalidServings
	}

	rec, err := s.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserID != userID {
		return nil, ErrRecipeNotFound
	}

	scaled := ScaleIntoItems(rec, numberOfServings, includedIngredientIDs, listID, userID)
	items := make([]*Item, len(scaled))
	for i := range scaled {
		items[i] = &scaled[i]
	}
	if err := s.repo.InsertItems(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem applies a name/notes patch to one raw row owned by the user.
func (s *Service) UpdateItem(ctx context.Context, userID string, itemID int64, patch ItemPatch) error {
	if err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.repo.UpdateItem(ctx, itemID, patch)
}

// DeleteItem removes one raw row owned by the user.
func (s *Service) DeleteItem(ctx context.Context, userID string, itemID int64) error {
	if err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, itemID)
}

// ToggleChecked propagates a checked/unchecked toggle to every raw row
// behind one consolidated entry and returns the per-id results. Partial
// failures are surfaced, not rolled back; the caller should re-read the
// list afterwards.
func (s *Service) ToggleChecked(ctx context.Context, userID string, consolidatedIDs []int64, checked bool) ([]PropagationResult, error) {
	for _, id := range consolidatedIDs {
		if err := s.ownedItem(ctx, userID, id); err != nil {
			return nil, err
		}
	}
	return PropagateChecked(ctx, s.repo, consolidatedIDs, checked), nil
}

// ClearChecked removes every checked row of a list.
func (s *Service) ClearChecked(ctx context.Context, userID string, listID int64) (int64, error) {
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return 0, err
	}
	return s.repo.DeleteChecked(ctx, listID)
}

// ClearAll removes every row of a list.
func (s *Service) ClearAll(ctx context.Context, userID string, listID int64) (int64, error) {
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return 0, err
	}
	return s.repo.DeleteAll(ctx, listID)
}

func (s *Service) ownedList(ctx context.Context, userID string, listID int64) (*ShoppingList, error) {
	list, err := s.repo.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil || list.UserID != userID {
		return nil, ErrListNotFound
	}
	return list, nil
}

func (s *Service) ownedItem(ctx context.Context, userID string, itemID int64) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil || item.UserID != userID {
		return ErrItemNotFound
	}
	return nil
}
