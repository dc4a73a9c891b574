package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int

	WebhookBaseURL string
	RequestTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ReconcileInterval time.Duration
	CouponCacheTTL    time.Duration

	MaxDiscountPercent int64
	MinOrderAmount     int64

	SearchDebounce time.Duration
	SearchMinQuery int
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: Could not load .env file, relying on environment")
	}

	config := &Config{}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.ServerPort = p
		}
	}
	if config.ServerPort == 0 {
		config.ServerPort = 8080
	}

	config.WebhookBaseURL = getEnvOrDefault("SHEINWIBE_WEBHOOK_BASE_URL", "https://proshein.com/webhook")
	config.RequestTimeout = getDurationOrDefault("SHEINWIBE_REQUEST_TIMEOUT", 10*time.Second)

	redisHost := getEnvOrDefault("SHEINWIBE_REDIS_HOST", "localhost")
	redisPort := getEnvOrDefault("SHEINWIBE_REDIS_PORT", "6379")
	config.RedisAddr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	config.RedisPassword = os.Getenv("SHEINWIBE_REDIS_PASSWORD")
	if db := os.Getenv("SHEINWIBE_REDIS_DB"); db != "" {
		if d, err := strconv.Atoi(db); err == nil {
			config.RedisDB = d
		}
	}

	config.ReconcileInterval = getDurationOrDefault("SHEINWIBE_RECONCILE_INTERVAL", 5*time.Minute)
	config.CouponCacheTTL = getDurationOrDefault("SHEINWIBE_COUPON_CACHE_TTL", 10*time.Minute)

	config.MaxDiscountPercent = getInt64OrDefault("SHEINWIBE_MAX_DISCOUNT_PERCENT", 50)
	config.MinOrderAmount = getInt64OrDefault("SHEINWIBE_MIN_ORDER_AMOUNT", 1000)

	config.SearchDebounce = getDurationOrDefault("SHEINWIBE_SEARCH_DEBOUNCE", 600*time.Millisecond)
	config.SearchMinQuery = int(getInt64OrDefault("SHEINWIBE_SEARCH_MIN_QUERY", 3))

	if config.MaxDiscountPercent < 0 || config.MaxDiscountPercent > 100 {
		return nil, fmt.Errorf("SHEINWIBE_MAX_DISCOUNT_PERCENT must be within [0, 100], got %d", config.MaxDiscountPercent)
	}

	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
