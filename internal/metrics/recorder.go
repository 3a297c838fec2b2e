// Package metrics records build and validation metrics.
//
// Components take a Recorder and default to NoopRecorder, so metrics stay
// optional. PrometheusRecorder is used when the HTTP server exposes /metrics.
package metrics

import "time"

// Recorder defines observability hooks for site builds.
type Recorder interface {
	IncBuild(status string)
	ObserveBuildDuration(d time.Duration)
	AddPagesGenerated(n int)
	ObserveValidation(errors, warnings int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncBuild(string)                   {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) AddPagesGenerated(int)              {}
func (NoopRecorder) ObserveValidation(int, int)         {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
