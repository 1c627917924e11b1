package app

import (
	"github.com/guttosm/rdcredit-service/config"
	"github.com/guttosm/rdcredit-service/internal/logger"
)

// InitializeLogger initializes the global zerolog logger.
func InitializeLogger(cfg config.LogConfig) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger.Init(level, cfg.Pretty)
}
