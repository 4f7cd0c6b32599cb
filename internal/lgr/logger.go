package lgr

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newProductionEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.EpochTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// InitializeLogger builds the JSON logger. Output goes to stderr because
// stdout carries the plugin result. verbose forces debug level.
func InitializeLogger(logLevel string, verbose bool) (*zap.Logger, error) {
	var level zapcore.Level
	if logLevel == "" {
		logLevel = "WARN"
	}
	if err := level.Set(logLevel); err != nil {
		return nil, fmt.Errorf("can't set log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	logger, err := zap.Config{
		Encoding:         "json",
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    newProductionEncoderConfig(),
	}.Build()
	if err != nil {
		return nil, fmt.Errorf("can't initialise the logger: %w", err)
	}
	return logger, nil
}
