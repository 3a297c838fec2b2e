package server

import (
	"html/template"
	"net/http"
	"strconv"
)

const (
	defaultPreviewHeight = 800
	minPreviewHeight     = 100
	maxPreviewHeight     = 4000
)

var previewPage = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Website Preview</title>
    <style>
        body { margin: 0; padding: 0; }
    </style>
</head>
<body>
    <iframe src="{{.URL}}" width="100%" height="{{.Height}}px" style="border: none;" allowfullscreen allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"></iframe>
</body>
</html>
`))

// previewHeight parses the height query parameter
func previewHeight(raw string) (int, error) {
	if raw == "" {
		return defaultPreviewHeight, nil
	}
	h, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ErrValidation{Field: "height", Message: "height must be an integer"}
	}
	if h < minPreviewHeight || h > maxPreviewHeight {
		return 0, &ErrValidation{
			Field:   "height",
			Message: "height must be between " + strconv.Itoa(minPreviewHeight) + " and " + strconv.Itoa(maxPreviewHeight),
		}
	}
	return h, nil
}

// handlePreview wraps a build's preview URL in an embeddable iframe page
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	height, err := previewHeight(r.URL.Query().Get("height"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	record, err := s.lookupBuild(r.Context(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if record.PreviewURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "Preview URL not available")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	data := struct {
		URL    string
		Height int
	}{record.PreviewURL, height}
	if err := previewPage.Execute(w, data); err != nil {
		s.logger.Error("failed to render preview", "build_id", record.ID, "err", err)
	}
}
