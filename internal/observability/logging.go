package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/storefront-labs/storefront/internal/config"
)

// NewLogger builds the JSON logger for a storefront process. Unknown levels
// log at info; every entry carries the service name when one is given.
func NewLogger(cfg config.LoggerConfig, service string) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Sampling = nil
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.MessageKey = "message"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if service != "" {
		zc.InitialFields = map[string]any{"service": service}
	}
	return zc.Build()
}
