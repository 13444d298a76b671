package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	JWTSecret    string
	Port         string

	// Gemini is optional; AI endpoints are disabled without it.
	GeminiAPIKey string

	// Nutrition provider credentials.
	FatSecretAPIURL   string
	FatSecretAPIKey   string
	SpoonacularAPIURL string
	SpoonacularAPIKey string

	// Telegram Config (required for the bot binary only)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		return nil, fmt.Errorf("DATABASE_PATH environment variable not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := &Config{
		DatabasePath:      databasePath,
		JWTSecret:         jwtSecret,
		Port:              port,
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		FatSecretAPIURL:   os.Getenv("FATSECRET_API_URL"),
		FatSecretAPIKey:   os.Getenv("FATSECRET_API_KEY"),
		SpoonacularAPIURL: os.Getenv("SPOONACULAR_API_URL"),
		SpoonacularAPIKey: os.Getenv("SPOONACULAR_API_KEY"),

		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	if raw := os.Getenv("TELEGRAM_ALLOW_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOW_USER_IDS entry %q: %w", part, err)
			}
			cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
		}
	}

	return cfg, nil
}
