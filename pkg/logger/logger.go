package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process logger. env "production" selects the JSON
// production config, anything else the human-readable development one.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}
