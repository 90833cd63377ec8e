package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// RateLimit is the per-client request budget, in ulule/limiter format
	// (e.g. "100-M" for 100 requests per minute).
	RateLimit string

	PosthogAPIKey   string
	PosthogEndpoint string

	// CardGatewayURL points at the external card processor. When empty the
	// sandbox gateway is used, which approves every charge.
	CardGatewayURL    string
	CardGatewayAPIKey string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "finance-approval-app")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")
	viper.SetDefault("CARD_GATEWAY_URL", "")
	viper.SetDefault("CARD_GATEWAY_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	expiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION ('%s'). Defaulting to 1h.\n", viper.GetString("JWT_EXPIRY_DURATION"))
		expiry = time.Hour
	}
	cfg.JWTExpiryDuration = expiry

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	cfg.CardGatewayURL = viper.GetString("CARD_GATEWAY_URL")
	cfg.CardGatewayAPIKey = viper.GetString("CARD_GATEWAY_API_KEY")
	if cfg.CardGatewayURL == "" {
		log.Println("Warning: CARD_GATEWAY_URL not set. Card payments will use the sandbox gateway.")
	}

	return cfg, nil
}
