package metrics

import "time"

// Stage names a step of a build run.
type Stage string

const (
	StageCollect   Stage = "collect"
	StageConvert   Stage = "convert"
	StageTemplates Stage = "templates"
	StageNavigate  Stage = "navigation"
)

// ResultLabel enumerates per-file conversion results.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// BuildOutcomeLabel enumerates final build states.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess BuildOutcomeLabel = "success"
	BuildOutcomeWarning BuildOutcomeLabel = "warning"
	BuildOutcomeFailed  BuildOutcomeLabel = "failed"
)

// Recorder defines observability hooks for builds. Implementations must be
// safe for concurrent use.
type Recorder interface {
	ObserveStageDuration(stage Stage, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncConversion(format string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetNavigationLeaves(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(Stage, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) IncConversion(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)         {}
func (NoopRecorder) SetNavigationLeaves(int)                   {}
