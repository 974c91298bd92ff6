package logging

import (
	"go.uber.org/zap"
)

var logger = zap.Must(zap.NewProduction())

// SetConfig builds a logger from the given zap config and installs it as the
// package logger
func SetConfig(cfg zap.Config) error {
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// Debug logs a message at debug level
func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

// Info logs a message at info level
func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

// Warn logs a message at warn level
func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

// Error logs a message at error level
func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

// Fatal logs a message at fatal level and exits
func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}
