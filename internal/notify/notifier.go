// package notify delivers the aggregate outcome of one scheduler execution.
// Delivery is best-effort: the pipeline's exit code never depends on it.
package notify

import (
	"context"
	"log"
	"time"
)

// Message is the notification payload published after both stages complete.
type Message struct {
	RunID        string    `json:"runId"`
	ExitCode     int       `json:"exitCode"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	Ts           time.Time `json:"ts"`
}

// Notifier delivers one outcome message per scheduler execution.
type Notifier interface {
	Notify(ctx context.Context, m Message) error
	Close() error
}

// LogNotifier writes the outcome to the log stream. It is the fallback when
// no broker is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, m Message) error {
	if m.ExitCode == 0 {
		log.Printf("[notify] run %s completed successfully", m.RunID)
	} else {
		log.Printf("[notify] run %s failed: %s", m.RunID, m.ErrorMessage)
	}
	return nil
}

func (LogNotifier) Close() error { return nil }
