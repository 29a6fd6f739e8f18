package utils

import (
	"log"

	"masterbook/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

// loggerConfig picks JSON output at info in production and colored console
// output at debug elsewhere. A parseable LOG_LEVEL wins over both.
func loggerConfig(production bool, level string) zap.Config {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if production {
		cfg = zap.NewProductionConfig()
	}
	if parsed, err := zapcore.ParseLevel(level); level != "" && err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	return cfg
}

func InitializeLogger() {
	var err error
	Logger, err = loggerConfig(config.IsProduction(), config.AppConfig.LogLevel).Build()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
}

// GetLogger builds the logger on first use.
func GetLogger() *zap.Logger {
	if Logger == nil {
		InitializeLogger()
	}
	return Logger
}
