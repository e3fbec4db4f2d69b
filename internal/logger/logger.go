package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/config"
)

// New builds the logger for one binary. Production logs JSON at info level,
// other environments use the development console encoder at debug level.
func New(cfg *config.Config, service string) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zcfg.Level = level
	}

	return zcfg.Build(zap.Fields(zap.String("service", service)))
}
