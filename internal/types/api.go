package types

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

// newValidator reports fields by their json names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BuildRequest is the body of a build request
type BuildRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	PreviewOnly bool   `json:"preview_only"`
	VersionName string `json:"version_name,omitempty" validate:"max=200"`
}

// Validate validates the BuildRequest using the validator.
func (r *BuildRequest) Validate() error {
	return validate.Struct(r)
}

// ParsedUserID returns the user ID as a UUID. Call Validate first.
func (r *BuildRequest) ParsedUserID() (uuid.UUID, error) {
	return uuid.Parse(r.UserID)
}

// BuildResponse acknowledges a queued build
type BuildResponse struct {
	BuildID    uuid.UUID   `json:"build_id"`
	Status     BuildStatus `json:"status"`
	PreviewURL string      `json:"preview_url,omitempty"`
}
