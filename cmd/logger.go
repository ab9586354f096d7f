package cmd

import (
	"log/slog"
	"os"

	"mealorder/internal/pkg/errs"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the application slog.Logger on a zap core. The returned
// sync func flushes buffered entries on shutdown.
func NewLogger(cfg LogConfig, serviceName string) (*slog.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, errs.NewValueIsInvalidErrorWithCause("logLevel", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "console":
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "", "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, nil, errs.NewValueIsInvalidError("logFormat " + cfg.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	zl := zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("service.name", serviceName))

	logger := slog.New(zapslog.NewHandler(zl.Core(), zapslog.WithCaller(true)))
	slog.SetDefault(logger)
	return logger, zl.Sync, nil
}
