package main

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/viper"
)

// setupLogging installs the process-wide slog handler from config.
// log.format selects the output: "text" is colorized tint output for
// terminals, "json" emits one object per line for log collectors.
func setupLogging() {
	handler := newLogHandler(
		os.Stdout,
		viper.GetString("log.format"),
		parseLevel(viper.GetString("log.level")),
	)

	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Route the stdlib logger (net/http server errors land there) through
	// the same handler.
	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(handler, slog.LevelInfo).Writer())
}

func newLogHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	if strings.ToLower(strings.TrimSpace(format)) == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	}

	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  true,
		TimeFormat: "15:04:05.000",
	})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
