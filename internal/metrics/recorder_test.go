package metrics

import (
	"testing"
	"time"
)

func TestNoopRecorderSatisfiesRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration(StageCollect, time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncConversion("Markdown", ResultSkipped)
	r.IncBuildOutcome(BuildOutcomeSuccess)
	r.SetNavigationLeaves(0)

	var _ Recorder = (*PrometheusRecorder)(nil)
}
