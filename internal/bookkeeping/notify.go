package bookkeeping

import "log/slog"

// Notifier surfaces the outcome of a mutation to the user.
type Notifier interface {
	Success(key, message string)
	Failure(key, message string, err error)
}

// LogNotifier reports outcomes through the default slog logger.
type LogNotifier struct{}

// Success logs at info level.
func (LogNotifier) Success(key, message string) {
	slog.Info(message, "operation", key)
}

// Failure logs at error level.
func (LogNotifier) Failure(key, message string, err error) {
	slog.Error(message, "operation", key, "error", err)
}
