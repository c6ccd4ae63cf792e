package logger

import (
	"go.uber.org/zap"
)

// New builds the service logger. Production mode emits JSON, anything else
// the human-readable development encoder.
func New(mode string) (*zap.Logger, error) {
	if mode == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
