package types

import (
	"time"

	"github.com/google/uuid"
)

// BuildStatus is the state of a website build
type BuildStatus string

// Build states, in lifecycle order
const (
	BuildQueued     BuildStatus = "queued"
	BuildInProgress BuildStatus = "in_progress"
	BuildComplete   BuildStatus = "complete"
	BuildError      BuildStatus = "error"
)

// IsTerminal reports whether no further transitions are expected
func (s BuildStatus) IsTerminal() bool {
	return s == BuildComplete || s == BuildError
}

// Build is a website build record
type Build struct {
	ID           uuid.UUID   `json:"build_id"`
	UserID       uuid.UUID   `json:"user_id"`
	Status       BuildStatus `json:"status"`
	PreviewURL   string      `json:"preview_url,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// SiteVersion is a published, versioned copy of a user's site
type SiteVersion struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	VersionName string    `json:"version_name"`
	StoragePath string    `json:"storage_path"`
	Content     string    `json:"content,omitempty"`
	IsPreview   bool      `json:"is_preview"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
