package utils

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv pulls a local .env file into the process environment before the
// config is read. A missing file is fine; containers set variables directly.
func LoadEnv(logger *zap.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using process environment")
		return
	}
	logger.Info(".env file loaded")
}
