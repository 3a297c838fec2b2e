package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/build"
	"github.com/jonathan/site-builder/internal/types"
)

// Event names on build streams
const (
	eventStep     = "step"
	eventStatus   = "status"
	eventComplete = "complete"
	eventError    = "error"
)

// buildFailure is the payload of an error event. BuildID is omitted when the
// failure happened before a build record existed.
type buildFailure struct {
	BuildID uuid.UUID `json:"build_id,omitzero"`
	Error   string    `json:"error"`
}

// buildStream writes the progress of one build as Server-Sent Events
type buildStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newBuildStream(w http.ResponseWriter) (*buildStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	return &buildStream{w: w, flusher: flusher}, nil
}

func (s *buildStream) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Step reports a pipeline step starting
func (s *buildStream) Step(ev build.ProgressEvent) error {
	return s.send(eventStep, ev)
}

// Status reports a non-terminal build record
func (s *buildStream) Status(record *types.Build) error {
	return s.send(eventStatus, record)
}

// Fail reports why the build stopped
func (s *buildStream) Fail(buildID uuid.UUID, err error) error {
	return s.send(eventError, buildFailure{BuildID: buildID, Error: err.Error()})
}

// Complete sends the terminal build record, which ends the stream
func (s *buildStream) Complete(record *types.Build) error {
	return s.send(eventComplete, record)
}
