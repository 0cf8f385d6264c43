package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerPort       string
	Env              string
	FrontendOrigins  []string
	MaxMessageLength int
	WSRateEvery      time.Duration
	WSRateBurst      int
}

func LoadConfig() Config {
	rateStr := getEnv("WS_RATE_EVERY", "500ms")
	rate, err := time.ParseDuration(rateStr)
	if err != nil {
		rate = 500 * time.Millisecond
	}

	return Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Env:        getEnv("ENV", "dev"),
		FrontendOrigins: getEnvAsList("FRONTEND_URL",
			[]string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		MaxMessageLength: getEnvAsInt("MAX_MESSAGE_LENGTH", 2000),
		WSRateEvery:      rate,
		WSRateBurst:      getEnvAsInt("WS_RATE_BURST", 5),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsList reads a comma-separated value, dropping blank entries.
func getEnvAsList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}
