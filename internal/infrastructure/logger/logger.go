package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"comandero/internal/config"
)

func New(cfg config.LogConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	if cfg.Encoding == "console" {
		zcfg.Encoding = "console"
	}
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.InitialFields = map[string]interface{}{"service": "comandero"}

	return zcfg.Build()
}
