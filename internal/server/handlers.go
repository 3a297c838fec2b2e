package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/build"
	"github.com/jonathan/site-builder/internal/types"
)

// decodeBuildRequest reads and validates a build request body
func decodeBuildRequest(w http.ResponseWriter, r *http.Request) (*types.BuildRequest, uuid.UUID, error) {
	var req types.BuildRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return nil, uuid.Nil, &ErrValidation{Message: "invalid request body: " + err.Error()}
	}
	if err := req.Validate(); err != nil {
		return nil, uuid.Nil, toValidationError(err)
	}
	userID, err := req.ParsedUserID()
	if err != nil {
		return nil, uuid.Nil, &ErrValidation{Field: "user_id", Message: "user_id must be a UUID"}
	}
	return &req, userID, nil
}

// parseID reads a UUID path value
func parseID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "invalid id: " + raw}
	}
	return id, nil
}

// handleBuildSite queues a build and runs it in the background
func (s *Server) handleBuildSite(w http.ResponseWriter, r *http.Request) {
	req, userID, err := decodeBuildRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	record, err := s.builder.Start(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := build.RunOptions{PreviewOnly: req.PreviewOnly, VersionName: req.VersionName}
	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		// failures are recorded on the build and logged by the builder
		_, _ = s.builder.Run(s.baseCtx, record.ID, userID, opts)
	}()

	s.jsonResponse(w, http.StatusAccepted, types.BuildResponse{
		BuildID: record.ID,
		Status:  types.BuildQueued,
	})
}

// handleBuildSiteStream runs a build within the request and streams its progress
func (s *Server) handleBuildSiteStream(w http.ResponseWriter, r *http.Request) {
	req, userID, err := decodeBuildRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	stream, err := newBuildStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	outcome, err := s.builder.Build(r.Context(), userID, build.RunOptions{
		PreviewOnly: req.PreviewOnly,
		VersionName: req.VersionName,
		OnProgress: func(event build.ProgressEvent) {
			_ = stream.Step(event)
		},
	})
	var record *types.Build
	if outcome != nil {
		record = outcome.Build
	}
	if err != nil {
		buildID := uuid.Nil
		if record != nil {
			buildID = record.ID
		}
		_ = stream.Fail(buildID, err)
	}
	if record != nil {
		_ = stream.Complete(record)
	}
}

// handleBuildStatus returns a build record
func (s *Server) handleBuildStatus(w http.ResponseWriter, r *http.Request) {
	record, err := s.lookupBuild(r.Context(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

// handleBuildStatusStream streams status changes until the build finishes
func (s *Server) handleBuildStatusStream(w http.ResponseWriter, r *http.Request) {
	record, err := s.lookupBuild(r.Context(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	stream, err := newBuildStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var last types.BuildStatus
	for {
		if record.Status != last {
			last = record.Status
			if record.Status.IsTerminal() {
				_ = stream.Complete(record)
				return
			}
			if err := stream.Status(record); err != nil {
				return
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		next, err := s.tracker.GetBuild(r.Context(), record.ID)
		if err != nil {
			_ = stream.Fail(record.ID, err)
			return
		}
		if next == nil {
			_ = stream.Fail(record.ID, &ErrNotFound{Resource: "Build", ID: record.ID.String()})
			return
		}
		record = next
	}
}

// lookupBuild resolves the {id} path value to an existing build
func (s *Server) lookupBuild(ctx context.Context, r *http.Request) (*types.Build, error) {
	id, err := parseID(r, "id")
	if err != nil {
		return nil, err
	}
	record, err := s.tracker.GetBuild(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &ErrNotFound{Resource: "Build", ID: id.String()}
	}
	return record, nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": serviceName,
				"error":   err.Error(),
			})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

// handleListVersions lists a user's published versions, newest first
func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	versions, err := s.versions.ListSiteVersions(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if versions == nil {
		versions = []types.SiteVersion{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"versions": versions,
		"count":    len(versions),
	})
}

// handleActivateVersion makes one version the user's live site
func (s *Server) handleActivateVersion(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	versionID, err := parseID(r, "version_id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	ok, err := s.versions.ActivateVersion(r.Context(), userID, versionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !ok {
		s.writeError(w, &ErrNotFound{Resource: "Version", ID: versionID.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":     "activated",
		"version_id": versionID.String(),
	})
}
