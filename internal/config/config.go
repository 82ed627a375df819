package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	APIKey      string
	DefaultCity string
	BaseURL     string
	TestFile    string
	HTTPTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first; variables already set take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	timeout, err := getEnvDuration("WEATHER_HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		APIKey:      getAPIKey(),
		DefaultCity: getEnv("WEATHER_DEFAULT_CITY", "Durban"),
		BaseURL:     getEnv("WEATHER_BASE_URL", "https://api.openweathermap.org"),
		TestFile:    getEnv("WEATHER_TEST_FILE", "weather.weather.json"),
		HTTPTimeout: timeout,
	}, nil
}

// getAPIKey returns an empty string when no key is configured; requests
// made without one are rejected by the provider.
func getAPIKey() string {
	for _, key := range []string{"OPENWEATHER_API_KEY", "VITE_API_KEY"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	apiKeyBytes, err := os.ReadFile(filepath.Join(home, ".config", "weather", "openweather_api_key"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(apiKeyBytes))
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive duration such as 10s", key, v)
	}
	return d, nil
}
