package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port            string
	DefaultLocation string

	OpenWeatherAPIKey string
	WeatherAPIKey     string
	OpenAIAPIKey      string
	OpenAIModel       string
	GeocoderAPIKey    string

	// SimulatorInterval controls how often demo devices emit readings.
	SimulatorInterval time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max readings per key (0 = unlimited)
	StoreMaxAge     time.Duration // max age of readings (0 = unlimited)

	// HTTPTimeout bounds outbound provider calls.
	HTTPTimeout time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DefaultLocation = getenvDefault("DEFAULT_LOCATION", "Bengaluru Central")

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = getenvDefault("OPENAI_MODEL", "gpt-4")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	interval, err := getenvDuration("SIMULATOR_INTERVAL", "30s")
	if err != nil {
		return nil, fmt.Errorf("invalid SIMULATOR_INTERVAL: %w", err)
	}
	cfg.SimulatorInterval = interval

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 0)

	maxAge, err := getenvDuration("STORE_MAX_AGE", "0")
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
