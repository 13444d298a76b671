package server

import (
	"github.com/gin-gonic/gin"

	"pantrypilot/internal/recipe"
)

// GET /api/recipes
func (s *Server) listRecipes(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	recipes, err := s.recipes.ListByUser(c.Request.Context(), uid)
	if err != nil {
		respServerError(c, err)
		return
	}
	respOK(c, recipes)
}

// POST /api/recipes
func (s *Server) createRecipe(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	var body struct {
		Name             string   `json:"name" binding:"required"`
		NumberOfServings *float64 `json:"number_of_servings"`
		Ingredients      []struct {
			FoodID           int64    `json:"food_id" binding:"required"`
			ServingID        *int64   `json:"serving_id"`
			NumberOfServings *float64 `json:"number_of_servings"`
		} `json:"ingredients"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respBadRequest(c, err.Error())
		return
	}

	rec := &recipe.Recipe{
		UserID:           uid,
		Name:             body.Name,
		NumberOfServings: body.NumberOfServings,
	}
	for i, ing := range body.Ingredients {
		rec.Ingredients = append(rec.Ingredients, recipe.Ingredient{
			FoodID:           ing.FoodID,
			ServingID:        ing.ServingID,
			NumberOfServings: ing.NumberOfServings,
			Position:         i,
		})
	}

	id, err := s.recipes.Save(c.Request.Context(), rec)
	if err != nil {
		respServerError(c, err)
		return
	}
	saved, err := s.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respServerError(c, err)
		return
	}
	respCreated(c, saved)
}

// GET /api/recipes/:id
func (s *Server) getRecipe(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := s.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respServerError(c, err)
		return
	}
	if rec == nil || rec.UserID != uid {
		respNotFound(c, "recipe not found")
		return
	}
	respOK(c, rec)
}

// DELETE /api/recipes/:id
func (s *Server) deleteRecipe(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.recipes.Delete(c.Request.Context(), id, uid); err != nil {
		respServerError(c, err)
		return
	}
	respOK(c, gin.H{"deleted": true})
}

// POST /api/recipes/import
func (s *Server) importRecipe(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	if s.clipper == nil {
		respUnavailable(c, "recipe import is not configured")
		return
	}
	var body struct {
		URL string `json:"url" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respBadRequest(c, err.Error())
		return
	}
	rec, err := s.clipper.ClipURL(c.Request.Context(), body.URL, uid)
	if err != nil {
		respServerError(c, err)
		return
	}
	respCreated(c, rec)
}

// POST /api/plan
func (s *Server) suggestPlan(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	if s.planner == nil {
		respUnavailable(c, "meal planning is not configured")
		return
	}
	var body struct {
		Request string `json:"request" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respBadRequest(c, err.Error())
		return
	}
	plan, err := s.planner.GeneratePlan(c.Request.Context(), uid, body.Request)
	if err != nil {
		respServerError(c, err)
		return
	}
	respOK(c, plan)
}
