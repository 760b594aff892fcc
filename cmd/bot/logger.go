package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// InitLogger installs a JSON logger on stdout as the process default.
func InitLogger(level string) {
	slog.SetDefault(newLogger(os.Stdout, level))
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}
