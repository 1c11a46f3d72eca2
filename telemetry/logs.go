package telemetry

import "log/slog"

type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Error(msg string, err error, args ...any)
}

type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps a slog.Logger in the Logger interface.
func NewSlogLogger(l *slog.Logger) Logger {
	return slogLogger{l: l}
}

func (s slogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}
func (s slogLogger) Debug(msg string, args ...any) {
	s.l.Debug(msg, args...)
}
func (s slogLogger) Error(msg string, err error, args ...any) {
	s.l.Error(msg, append(args, "err", err)...)
}

type NOPLogger struct {
}

func (n NOPLogger) Info(msg string, args ...any) {
}
func (n NOPLogger) Debug(msg string, args ...any) {
}
func (n NOPLogger) Error(msg string, err error, args ...any) {
}
