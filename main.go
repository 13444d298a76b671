package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pantrypilot/internal/catalog"
	"pantrypilot/internal/clipper"
	"pantrypilot/internal/config"
	"pantrypilot/internal/database"
	"pantrypilot/internal/llm"
	"pantrypilot/internal/nutrition"
	"pantrypilot/internal/planner"
	"pantrypilot/internal/recipe"
	"pantrypilot/internal/server"
	"pantrypilot/internal/shopping"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize the database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 3. Repositories
	foodRepo := catalog.NewRepository(db.SQL)
	recipeRepo := recipe.NewRepository(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)

	// 4. Nutrition providers
	var providers []nutrition.Provider
	if cfg.FatSecretAPIURL != "" && cfg.FatSecretAPIKey != "" {
		providers = append(providers, nutrition.NewFatSecretClient(cfg.FatSecretAPIURL, cfg.FatSecretAPIKey))
	}
	if cfg.SpoonacularAPIURL != "" && cfg.SpoonacularAPIKey != "" {
		providers = append(providers, nutrition.NewSpoonacularClient(cfg.SpoonacularAPIURL, cfg.SpoonacularAPIKey))
	}
	importer := catalog.NewImporter(foodRepo, providers...)

	// 5. Services; the AI helpers stay nil without a Gemini key.
	shoppingSvc := shopping.NewService(shoppingRepo, recipeRepo)

	var recipeClipper server.RecipeClipper
	var mealPlanner server.PlanGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		recipeClipper = clipper.NewClipper(recipeRepo, foodRepo, geminiClient)
		mealPlanner = planner.NewPlanner(recipeRepo, geminiClient)
	} else {
		log.Println("GEMINI_API_KEY not set, AI endpoints disabled")
	}

	// 6. HTTP API with Graceful Shutdown
	api := server.New(cfg.JWTSecret, shoppingSvc, recipeRepo, importer, foodRepo, recipeClipper, mealPlanner)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("API Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
