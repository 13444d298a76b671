package server

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"pantrypilot/internal/shopping"
)

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respBadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// shoppingError maps the service sentinels onto HTTP statuses.
func shoppingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shopping.ErrListNotFound),
		errors.Is(err, shopping.ErrItemNotFound),
		errors.Is(err, shopping.ErrRecipeNotFound):
		respNotFound(c, err.Error())
	case errors.Is(err, shopping.ErrNewDefaultRequired):
		respConflict(c, err.Error())
	case errors.Is(err, shopping.ErrInvalidItem),
		errors.Is(err, shopping.ErrInvalidServings):
		respBadRequest(c, err.Error())
	default:
		respServerError(c, err)
	}
}

// GET /api/lists
func (s *Server) listLists(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	lists, err := s.shopping.Lists(c.Request.Context(), uid)
	if err != nil {
		respServerError(c, err)
		return
	}
	respOK(c, lists)
}

// POST /api/lists
func (s *Server) createList(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	var body struct {
		Name      string `json:"name" binding:"required"`
		IsDefault bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respBadRequest(c, err.Error())
		return
	}
	list, err := s.shopping.CreateList(c.Request.Context(), uid, body.Name, body.IsDefault)
	if err != nil {
		shoppingError(c, err)
		return
	}
	respCreated(c, list)
}

// PATCH /api/lists/:id
func (s *Server) renameList(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respBadRequest(c, err.Error())
		return
	}
	if err := s.shopping.RenameList(c.Request.Context(), uid, id, body.Name); err != nil {
		shoppingError(c, err)
		return
	}
	respOK(c, gin.H{"renamed": true})
}

// POST /api/lists/:id/default
func (s *Server) promoteDefault(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.shopping.SetDefaultList(c.Request.Context(), uid, id); err != nil {
		shoppingError(c, err)
		return
	}
	respOK(c, gin.H{"default": true})
}

// DELETE /api/lists/:id?new_default_id=N
func (s *Server) deleteList(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var newDefaultID int64
	if raw := c.Query("new_default_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respBadRequest(c, "invalid new_default_id")
			return
		}
		newDefaultID = parsed
	}
	if err := s.shopping.DeleteList(c.Request.Context(), uid, id, newDefaultID); err != nil {
		shoppingError(c, err)
		return
	}
	respOK(c, gin.H{"deleted": true})
}

// GET /api/lists/:id/items?group_by=recipe|aisle
//
// Without group_by the list comes back as one flat consolidated slice;
// with it, partitioned into ordered display groups.
func (s *Server) listItems(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	groupBy := c.Query("group_by")
	if groupBy != "" {
		mode := shopping.GroupMode(groupBy)
		groups, err := s.shopping.GroupedItems(c.Request.Context(), uid, id, mode)
		if err != nil {
			if errors.Is(err, shopping.ErrListNotFound) {
				respNotFound(c, err.Error())
				return
			}
			respBadRequest(c, err.Error())
			return
		}
		respOK(c, gin.H{"groups": groups})
		return
	}

	items, err := s.shopping.Items(c.Request.Context(), uid, id)
	if err != nil {
		shoppingError(c, err)
		return
	}
	respOK(c, gin.H{"items": shopping.Consolidate(items, false)})
}

// POST /api/lists/:id/items
func (s *Server) addItem(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body struct {
		Name             *string  `json:"name"`
		FoodID           *int64   `json:"food_id"`
		ServingID        *int64   `json:"serving_id"`
		NumberOfServings *float64 `json:"number_of_servings"`
		Notes            *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respBadRequest(c, err.Error())
		return
	}
	item := &shopping.Item{
		ListID:           id,
		Name:             body.Name,
		FoodID:           body.FoodID,
		ServingID:        body.ServingID,
		NumberOfServings: body.NumberOfServings,
		Notes:            body.Notes,
	}
	created, err := s.shopping.AddItem(c.Request.Context(), uid, item)
	if err != nil {
		shoppingError(c, err)
		return
	}
	respCreated(c, created)
}

// POST /api/lists/:id/recipes
func (s *Server) addRecipeToList(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body struct {
		RecipeID              int64   `json:"recipe_id" binding:"required"`
		NumberOfServings      float64 `json:"number_of_servings" binding:"required"`
		IncludedIngredientIDs []int64 `json:"included_ingredient_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respBadRequest(c, err.Error())
		return
	}
	items, err := s.shopping.AddRecipe(c.Request.Context(), uid, id, body.RecipeID,
		body.NumberOfServings, body.IncludedIngredientIDs)
	if err != nil {
		shoppingError(c, err)
		return
	}
	respCreated(c, gin.H{"items": items})
}

// PATCH /api/items/checked
func (s *Server) toggleChecked(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	var body struct {
		IDs     []int64 `json:"ids" binding:"required"`
		Checked *bool   `json:"checked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respBadRequest(c, err.Error())
		return
	}
	results, err := s.shopping.ToggleChecked(c.Request.Context(), uid, body.IDs, *body.Checked)
	if err != nil {
		shoppingError(c, err)
		return
	}
	respOK(c, gin.H{"failed_ids": shopping.FailedIDs(results)})
}

// PATCH /api/items/:id
func (s *Server) updateItem(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch shopping.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respBadRequest(c, err.Error())
		return
	}
	if err := s.shopping.UpdateItem(c.Request.Context(), uid, id, patch); err != nil {
		shoppingError(c, err)
		return
	}
	respOK(c, gin.H{"updated": true})
}

// DELETE /api/items/:id
func (s *Server) deleteItem(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.shopping.DeleteItem(c.Request.Context(), uid, id); err != nil {
		shoppingError(c, err)
		return
	}
	respOK(c, gin.H{"deleted": true})
}

// DELETE /api/lists/:id/items/checked
func (s *Server) clearChecked(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	n, err := s.shopping.ClearChecked(c.Request.Context(), uid, id)
	if err != nil {
		shoppingError(c, err)
		return
	}
	respOK(c, gin.H{"removed": n})
}

// DELETE /api/lists/:id/items
func (s *Server) clearAll(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	n, err := s.shopping.ClearAll(c.Request.Context(), uid, id)
	if err != nil {
		shoppingError(c, err)
		return
	}
	respOK(c, gin.H{"removed": n})
}
