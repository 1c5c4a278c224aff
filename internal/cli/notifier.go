package cli

import (
	"fmt"
	"io"
	"log/slog"
)

// Notifier prints mutation outcomes to a terminal. It satisfies
// bookkeeping.Notifier.
type Notifier struct {
	w io.Writer
}

// NewNotifier writes to w.
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

// Success prints a green confirmation.
func (n *Notifier) Success(key, message string) {
	slog.Debug("operation succeeded", "operation", key)
	fmt.Fprintln(n.w, FormatSuccess(message))
}

// Failure prints the message and the underlying error.
func (n *Notifier) Failure(key, message string, err error) {
	slog.Debug("operation failed", "operation", key, "error", err)
	fmt.Fprintln(n.w, FormatError(fmt.Sprintf("%s: %v", message, err)))
}
