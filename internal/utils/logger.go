package utils

import (
	"os"

	"go.uber.org/zap"
)

func NewLogger() (*zap.Logger, error) {
	if os.Getenv("ENV") == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
