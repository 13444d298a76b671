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
	"pantrypilot/internal/planner"
	"pantrypilot/internal/recipe"
	"pantrypilot/internal/shopping"
	"pantrypilot/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
	}

	ctx := context.Background()

	// 2. Initialize the database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 3. Repositories and services
	foodRepo := catalog.NewRepository(db.SQL)
	recipeRepo := recipe.NewRepository(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)
	shoppingSvc := shopping.NewService(shoppingRepo, recipeRepo)

	var recipeClipper telegram.RecipeClipper
	var mealPlanner telegram.PlanGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		recipeClipper = clipper.NewClipper(recipeRepo, foodRepo, geminiClient)
		mealPlanner = planner.NewPlanner(recipeRepo, geminiClient)
	} else {
		log.Println("GEMINI_API_KEY not set, AI commands disabled")
	}

	// 4. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, shoppingSvc, recipeClipper, mealPlanner)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 5. Start Server with Graceful Shutdown
	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", cfg.Port)
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
