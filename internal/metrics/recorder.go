// Package metrics holds the build and diagram-fetch observability hooks.
// Components receive a Recorder; NoopRecorder is the default so callers never
// need nil checks.
package metrics

import "time"

// Outcome labels for counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeStale   = "stale"
)

// Recorder defines observability hooks for builds and diagram fetches.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string)
	IncPagesWritten(kind string)
	IncDiagramFetch(outcome string)
	IncPolicyFinding(kind, policy string)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) IncPagesWritten(string)                     {}
func (NoopRecorder) IncDiagramFetch(string)                     {}
func (NoopRecorder) IncPolicyFinding(string, string)            {}
