// Package logger provides the shared Zap sugared logger for the application.
// Level and output are chosen from the environment (LOG_LEVEL, ENVIRONMENT),
// and helpers are provided for masking sensitive values in log fields.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

// IsTest routes log output to stdout with a development config when set,
// so test runs stay readable.
var IsTest bool

func initLoggerInternal() {
	var zapLogger *zap.Logger
	var err error

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		level = zapcore.InfoLevel
	}

	switch {
	case IsTest:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.OutputPaths = []string{"stdout"}
		zapLogger, err = cfg.Build()
	case os.Getenv("ENVIRONMENT") == "production":
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		zapLogger, err = cfg.Build()
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		zapLogger, err = cfg.Build()
	}

	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	logger = zapLogger.Sugar()
}

// InitLogger initializes the global logger. Safe to call more than once.
func InitLogger() {
	once.Do(initLoggerInternal)
}

// GetLogger returns the shared sugared logger, initializing it if needed.
func GetLogger() *zap.SugaredLogger {
	once.Do(initLoggerInternal)
	return logger
}

// Close flushes buffered log entries. Call before the process exits.
func Close() error {
	if logger != nil && !IsTest {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "error syncing logger: %v\n", err)
			return err
		}
	}
	return nil
}

// MaskSensitiveString keeps the first prefixLen and last suffixLen characters
// of s and hides the rest. Short strings are fully masked so their length is
// not revealed.
func MaskSensitiveString(s string, prefixLen, suffixLen int) string {
	if s == "" {
		return ""
	}
	if len(s) < prefixLen+suffixLen+3 {
		return strings.Repeat("*", len(s))
	}
	return s[:prefixLen] + "..." + s[len(s)-suffixLen:]
}

// MaskEmail hides most of the local part of an email address while keeping
// the domain readable. Invite and participant flows log emails through this.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return MaskSensitiveString(email, 2, 2)
	}
	return MaskSensitiveString(parts[0], 2, 1) + "@" + parts[1]
}
