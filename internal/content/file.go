package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/logging"
	"github.com/jonathan/site-builder/internal/schemas"
	"github.com/jonathan/site-builder/internal/types"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a content document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported content file extension %q", filepath.Ext(path))
	}
}

// Decode parses a content document, checks its shape against the content bundle
// schema and returns the bundle with every category slice non-nil.
func Decode(data []byte, format Format) (*types.ContentBundle, error) {
	var doc any
	var bundle types.ContentBundle

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		if err := schemas.ValidateContentBundle(doc); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &bundle); err != nil {
			return nil, fmt.Errorf("invalid content bundle: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		if err := schemas.ValidateContentBundle(doc); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &bundle); err != nil {
			return nil, fmt.Errorf("invalid content bundle: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported content format %q", format)
	}

	Normalize(&bundle)
	return &bundle, nil
}

// LoadFile reads and decodes a single content file.
func LoadFile(path string) (*types.ContentBundle, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "unknown format", Cause: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Message: "file not found", Cause: ErrNotFound}
		}
		return nil, &LoadError{Path: path, Message: "read failed", Cause: err}
	}
	bundle, err := Decode(data, format)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "decode failed", Cause: err}
	}
	return bundle, nil
}

// FileProvider serves content bundles stored as files named after the user ID.
type FileProvider struct {
	dir    string
	file   string
	clock  func() time.Time
	logger *log.Logger
}

// FileOption configures a FileProvider.
type FileOption func(*FileProvider)

// WithFile makes the provider return the given file for every user.
func WithFile(path string) FileOption {
	return func(p *FileProvider) { p.file = path }
}

// WithFileClock sets the clock used for generated metadata.
func WithFileClock(clock func() time.Time) FileOption {
	return func(p *FileProvider) { p.clock = clock }
}

// WithFileLogger sets the provider logger.
func WithFileLogger(l *log.Logger) FileOption {
	return func(p *FileProvider) { p.logger = logging.OrDiscard(l) }
}

// NewFileProvider creates a provider reading from dir.
func NewFileProvider(dir string, opts ...FileOption) *FileProvider {
	p := &FileProvider{
		dir:    dir,
		clock:  time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var fileExtensions = []string{".json", ".yaml", ".yml"}

// Path returns the file the provider would read for userID, or ErrNotFound.
func (p *FileProvider) Path(userID uuid.UUID) (string, error) {
	if p.file != "" {
		return p.file, nil
	}
	for _, ext := range fileExtensions {
		candidate := filepath.Join(p.dir, userID.String()+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no content file for user %s in %s: %w", userID, p.dir, ErrNotFound)
}

// FetchContent implements Provider.
func (p *FileProvider) FetchContent(ctx context.Context, userID uuid.UUID) (*types.ContentBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := p.Path(userID)
	if err != nil {
		return nil, err
	}
	bundle, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if bundle.Metadata == nil {
		bundle.Metadata = types.NewMetadata(bundle, p.clock())
	}
	p.logger.Debug("loaded content", "user_id", userID, "path", path)
	return bundle, nil
}
