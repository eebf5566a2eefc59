// Package applog builds the *zap.Logger every other package accepts as an
// injected dependency rather than reaching for a global.
package applog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noxwright/ecsforge/internal/config"
)

// New builds a logger from cfg: "json" format gets zap's production
// encoder, anything else gets the development console encoder with a
// colored level, a trimmed HH:MM:SS timestamp, and caller/stacktrace
// annotations turned off (they add noise for a single-process demo).
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
