package logger

import (
	"context"
	"fmt"
	"os"

	"github.com/duccv/user-auth-service/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

var zapLogger *zap.Logger

// initLogger initializes the Zap logger with the given configuration
func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level := getLogLevel(cfg.Level, cfg.Environment)

	prodEncoderCfg := zap.NewProductionEncoderConfig()
	prodEncoderCfg.TimeKey = "timestamp"
	prodEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	prodEncoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	devEncoderCfg := zap.NewDevelopmentEncoderConfig()
	devEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	devEncoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	var cores []zapcore.Core

	if cfg.FilePath != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			LocalTime:  cfg.LocalTime,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(prodEncoderCfg), fileWriter, level))
	}

	if cfg.Environment != "production" {
		consoleEncoder := zapcore.NewConsoleEncoder(devEncoderCfg)
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level))
	} else if len(cores) == 0 {
		// production without a file still needs somewhere to write
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(prodEncoderCfg), zapcore.AddSync(os.Stdout), level))
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// getLogLevel returns the appropriate log level based on configuration
func getLogLevel(levelStr string, env string) zap.AtomicLevel {
	level, err := zap.ParseAtomicLevel(levelStr)
	if env == "production" {
		if err != nil || level.Level() < zapcore.InfoLevel {
			fmt.Fprintf(
				os.Stderr,
				"[Logger] ⚠️  Log level '%s' not allowed in production. Fallback to INFO\n",
				levelStr,
			)
			return zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
		return level
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "[Logger] ⚠️  Invalid log level '%s', fallback to INFO\n", levelStr)
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return level
}

// GetLogger returns the singleton logger instance
func GetLogger(cfg config.LoggerConfig) *zap.Logger {
	if zapLogger == nil {
		zapLogger = initLogger(cfg)
	}
	return zapLogger
}

// WithContext stores a request scoped logger in ctx.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request scoped logger, or the global one.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.L()
}

// WithCorrelationID adds correlation ID to the logger
func WithCorrelationID(logger *zap.Logger, correlationID string) *zap.Logger {
	if correlationID != "" {
		return logger.With(zap.String("correlation_id", correlationID))
	}
	return logger
}

// Sync flushes any buffered log entries
func Sync() error {
	if zapLogger != nil {
		return zapLogger.Sync()
	}
	return nil
}
