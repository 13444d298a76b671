// Package server exposes the shopping-list engine, the recipe catalog and
// the AI helpers over an authenticated JSON API.
package server

import (
	"context"

	"github.com/gin-gonic/gin"

	"pantrypilot/internal/catalog"
	"pantrypilot/internal/planner"
	"pantrypilot/internal/recipe"
	"pantrypilot/internal/shopping"
)

// RecipeClipper imports a recipe from a web page. Optional; the import
// endpoint reports unavailable when it is nil.
type RecipeClipper interface {
	ClipURL(ctx context.Context, url, userID string) (*recipe.Recipe, error)
}

// PlanGenerator suggests a weekly meal plan. Optional like RecipeClipper.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, userID, userRequest string) (*planner.MealPlan, error)
}

// Server holds the handler dependencies.
type Server struct {
	jwtSecret string
	shopping  *shopping.Service
	recipes   *recipe.Repository
	foods     *catalog.Importer
	catalog   *catalog.Repository
	clipper   RecipeClipper
	planner   PlanGenerator
}

// New creates a Server. clipper and plan may be nil when the AI stack is
// not configured.
func New(jwtSecret string, shoppingSvc *shopping.Service, recipes *recipe.Repository,
	foods *catalog.Importer, cat *catalog.Repository, clip RecipeClipper, plan PlanGenerator) *Server {
	return &Server{
		jwtSecret: jwtSecret,
		shopping:  shoppingSvc,
		recipes:   recipes,
		foods:     foods,
		catalog:   cat,
		clipper:   clip,
		planner:   plan,
	}
}

// Router builds the Gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), RequestID())

	r.GET("/health", func(c *gin.Context) {
		respOK(c, gin.H{"status": "healthy"})
	})

	api := r.Group("/api", AuthRequired(s.jwtSecret))
	{
		api.GET("/lists", s.listLists)
		api.POST("/lists", s.createList)
		api.PATCH("/lists/:id", s.renameList)
		api.POST("/lists/:id/default", s.promoteDefault)
		api.DELETE("/lists/:id", s.deleteList)

		api.GET("/lists/:id/items", s.listItems)
		api.POST("/lists/:id/items", s.addItem)
		api.POST("/lists/:id/recipes", s.addRecipeToList)
		api.DELETE("/lists/:id/items/checked", s.clearChecked)
		api.DELETE("/lists/:id/items", s.clearAll)

		api.PATCH("/items/checked", s.toggleChecked)
		api.PATCH("/items/:id", s.updateItem)
		api.DELETE("/items/:id", s.deleteItem)

		api.GET("/recipes", s.listRecipes)
		api.POST("/recipes", s.createRecipe)
		api.GET("/recipes/:id", s.getRecipe)
		api.DELETE("/recipes/:id", s.deleteRecipe)
		api.POST("/recipes/import", s.importRecipe)
		api.POST("/plan", s.suggestPlan)

		api.GET("/foods", s.searchFoods)
		api.GET("/foods/:id/servings", s.listServings)
	}

	return r
}
