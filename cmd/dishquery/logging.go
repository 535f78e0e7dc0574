package main

import (
	"fmt"
	"io"
	"log/slog"
)

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

func setupLogging(w io.Writer, level string) error {
	logger, err := newLogger(w, level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
