package logging

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

type gormWriter struct{}

// Printf forwards GORM's formatted output to zerolog. GORM prefixes
// warnings and errors, so the level is picked from the message.
func (gormWriter) Printf(format string, args ...any) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	switch {
	case strings.Contains(msg, "[error]"):
		Error().Str("component", "gorm").Msg(msg)
	case strings.Contains(msg, "[warn]"), strings.Contains(msg, "SLOW SQL"):
		Warn().Str("component", "gorm").Msg(msg)
	default:
		Debug().Str("component", "gorm").Msg(msg)
	}
}

// GormLogger builds a GORM logger that writes through the global zerolog
// logger. level is one of silent, error, warn, info.
func GormLogger(level string) logger.Interface {
	return logger.New(gormWriter{}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
