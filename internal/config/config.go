package config

import (
	"os"
	"strconv"
	"time"

	"myna/internal/cache"
	"myna/internal/external"
	"myna/internal/messaging"
)

// Config holds the full application configuration. It is built once at
// startup and passed by reference; nothing reads the environment after Load.
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	PMS      external.PMSConfig
	Razorpay external.RazorpayConfig
	Cache    cache.Config
	NATS     messaging.Config
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		PMS: external.PMSConfig{
			BaseURL:   getEnv("PMS_API_URL", "https://live.ipms247.com/booking/reservation_api/listing.php"),
			HotelCode: getEnv("PMS_HOTEL_CODE", ""),
			APIKey:    getEnv("PMS_API_KEY", ""),
			Timeout:   time.Duration(getEnvInt("PMS_TIMEOUT_SEC", 30)) * time.Second,
		},

		Razorpay: external.RazorpayConfig{
			BaseURL:   getEnv("RAZORPAY_API_URL", "https://api.razorpay.com"),
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
			Timeout:   time.Duration(getEnvInt("RAZORPAY_TIMEOUT_SEC", 30)) * time.Second,
		},

		Cache: cache.Config{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			TTL:      time.Duration(getEnvInt("CACHE_TTL_SEC", 300)) * time.Second,
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", ""),
			ClusterID: getEnv("NATS_CLUSTER_ID", "myna"),
			ClientID:  getEnv("NATS_CLIENT_ID", "myna-api"),
		},
	}
}

// getEnv returns the environment variable value or the provided default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or the default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
