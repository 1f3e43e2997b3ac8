package metrics

import "time"

// Outcome labels for lifecycle commands.
const (
	OutcomeApplied  = "applied"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Recorder defines observability hooks for the command handlers.
type Recorder interface {
	ObserveCommand(command string, d time.Duration, outcome string)
	IncStaleRetry(command string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCommand(string, time.Duration, string) {}
func (NoopRecorder) IncStaleRetry(string) {}
