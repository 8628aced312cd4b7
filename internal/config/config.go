package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/draganv/speedwatch-backend-go/internal/violation"
)

// Config holds application configuration
type Config struct {
	Port               string
	DBPath             string
	JWTSecret          string
	ViolationThreshold float64 // km/h over the limit before a sample counts
	InputDir           string
	OutputDir          string
	BatchWorkers       int
}

// Load reads configuration from the environment, with an optional .env file.
func Load() *Config {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", ":8080"),
		DBPath:             getEnv("DB_PATH", "./data/speed_limits.db"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		ViolationThreshold: getEnvFloat("VIOLATION_THRESHOLD", violation.DefaultThreshold),
		InputDir:           getEnv("INPUT_DIR", "./test_metadata"),
		OutputDir:          getEnv("OUTPUT_DIR", "./output_json"),
		BatchWorkers:       getEnvInt("BATCH_WORKERS", 4),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
