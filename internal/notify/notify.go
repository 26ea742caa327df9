// Package notify delivers advisory batch notifications. The pipeline fires
// these and moves on; a failed or slow notifier never affects processing.
package notify

import "github.com/gbabichev/mp4batch/internal/logging"

// Notifier receives remaining-file counts and terminal batch state.
type Notifier interface {
	RemainingChanged(remaining int)
	BatchFinished(succeeded, failed int)
}

// NullNotifier discards all notifications.
type NullNotifier struct{}

func (NullNotifier) RemainingChanged(int)   {}
func (NullNotifier) BatchFinished(int, int) {}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	log *logging.Logger
}

// NewLogNotifier creates a notifier backed by the given logger, defaulting
// to the global one.
func NewLogNotifier(log *logging.Logger) *LogNotifier {
	if log == nil {
		log = logging.Global()
	}
	return &LogNotifier{log: log.WithPrefix("notify")}
}

func (n *LogNotifier) RemainingChanged(remaining int) {
	n.log.Info("queue updated", "remaining", remaining)
}

func (n *LogNotifier) BatchFinished(succeeded, failed int) {
	n.log.Info("batch finished", "succeeded", succeeded, "failed", failed)
}
