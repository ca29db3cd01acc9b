package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the package-wide structured logger, separate from controller-runtime's
// own logr-based logging. The reconcilers, the backoff helpers and the
// Prometheus client all log through it.
var Log *zap.SugaredLogger

func init() {
	level := GetZapLevelFromEnv()
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)

	raw, err := config.Build()
	if err != nil {
		panic("failed to build zap logger: " + err.Error())
	}
	Log = raw.Sugar()
}

// InitLogger builds a fresh zap logger from LOG_LEVEL and returns the raw
// (non-sugared) logger so callers can wire Sync() into their shutdown path.
func InitLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(GetZapLevelFromEnv())
	return config.Build()
}

func GetZapLevelFromEnv() zapcore.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
