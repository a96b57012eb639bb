package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New constructs the JSON slog logger shared by every component.
// LOG_FILE additionally tees records into a size rotated file.
func New() *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	handler := slog.NewJSONHandler(output(os.Getenv("LOG_FILE")), &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", "shopbot")
}

func output(file string) io.Writer {
	file = strings.TrimSpace(file)
	if file == "" {
		return os.Stdout
	}
	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    100,
		MaxAge:     7,
		MaxBackups: 3,
		LocalTime:  true,
		Compress:   true,
	}
	return io.MultiWriter(os.Stdout, rotating)
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
