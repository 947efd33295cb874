// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/graph-guard/config"
	"github.com/guttosm/graph-guard/internal/logger"
)

// InitializeLogger initializes the JSON logger from configuration.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, cfg.Pretty)
}
