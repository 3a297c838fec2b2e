// Package publish stores generated sites and returns where they can be reached.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/logging"
	"github.com/jonathan/site-builder/internal/types"
)

// Storage buckets
const (
	BucketPreviews = "previews"
	BucketWebsites = "websites"
)

// TimestampLayout names each published copy of a site.
const TimestampLayout = "20060102_150405"

// Result describes a published site
type Result struct {
	Bucket      string   `json:"bucket"`
	StoragePath string   `json:"storage_path"`
	PublicURL   string   `json:"public_url"`
	Files       []string `json:"files"`
	IsPreview   bool     `json:"is_preview"`
}

// Publisher stores a rendered site for a user
type Publisher interface {
	Publish(ctx context.Context, userID uuid.UUID, site *types.RenderedSite, preview bool) (*Result, error)
}

// PublishError represents a failure writing a site
type PublishError struct {
	Path    string
	Message string
	Cause   error
}

func (e *PublishError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to publish %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to publish %s: %s", e.Path, e.Message)
}

func (e *PublishError) Unwrap() error {
	return e.Cause
}

// ContentType returns the MIME type a published file is served with
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	default:
		return "application/octet-stream"
	}
}

// FSPublisher writes sites to a directory tree laid out as
// <root>/<bucket>/sites/<user>/<timestamp>/.
type FSPublisher struct {
	root    string
	baseURL string
	clock   func() time.Time
	logger  *log.Logger
}

// Option configures an FSPublisher
type Option func(*FSPublisher)

// WithClock sets the clock used for version timestamps
func WithClock(clock func() time.Time) Option {
	return func(p *FSPublisher) { p.clock = clock }
}

// WithLogger sets the publisher logger
func WithLogger(l *log.Logger) Option {
	return func(p *FSPublisher) { p.logger = logging.OrDiscard(l) }
}

// NewFSPublisher creates a publisher rooted at root. Public URLs are baseURL
// joined with the bucket and storage path.
func NewFSPublisher(root, baseURL string, opts ...Option) *FSPublisher {
	p := &FSPublisher{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		clock:   time.Now,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Root returns the directory sites are written under
func (p *FSPublisher) Root() string {
	return p.root
}

// Publish writes every page and the stylesheet of site.
func (p *FSPublisher) Publish(ctx context.Context, userID uuid.UUID, site *types.RenderedSite, preview bool) (*Result, error) {
	if site == nil {
		return nil, &PublishError{Path: p.root, Message: "no site to publish"}
	}

	bucket := BucketWebsites
	if preview {
		bucket = BucketPreviews
	}

	base, dir, err := p.reserveDir(bucket, userID)
	if err != nil {
		return nil, err
	}

	files := site.Files()
	names := append(site.Paths(), types.StylesheetPath)
	written := make([]string, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := writeFile(dir, name, files[name]); err != nil {
			return nil, err
		}
		written = append(written, path.Join(base, name))
	}

	storagePath := path.Join(base, "index.html")
	result := &Result{
		Bucket:      bucket,
		StoragePath: storagePath,
		PublicURL:   p.baseURL + "/" + path.Join(bucket, storagePath),
		Files:       written,
		IsPreview:   preview,
	}
	p.logger.Info("published site", "user_id", userID, "bucket", bucket, "path", storagePath, "files", len(written))
	return result, nil
}

// reserveDir creates a fresh timestamped directory for the user, adding a
// numeric suffix when a publish already claimed the same second.
func (p *FSPublisher) reserveDir(bucket string, userID uuid.UUID) (string, string, error) {
	stamp := p.clock().Format(TimestampLayout)
	parent := filepath.Join(p.root, bucket, "sites", userID.String())
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", "", &PublishError{Path: parent, Message: "cannot create directory", Cause: err}
	}

	name := stamp
	for i := 1; ; i++ {
		err := os.Mkdir(filepath.Join(parent, name), 0o755)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", &PublishError{Path: parent, Message: "cannot create directory", Cause: err}
		}
		name = fmt.Sprintf("%s_%d", stamp, i)
	}

	base := path.Join("sites", userID.String(), name)
	return base, filepath.Join(parent, name), nil
}

func writeFile(dir, name, body string) error {
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return &PublishError{Path: name, Message: "path escapes the site directory"}
	}
	// "blog/../about.html" stays local but would land on another page
	if path.Clean(name) != name {
		return &PublishError{Path: name, Message: "path is not canonical"}
	}
	target := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return &PublishError{Path: name, Message: "cannot create directory", Cause: err}
	}
	if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
		return &PublishError{Path: name, Message: "write failed", Cause: err}
	}
	return nil
}
