// Package build runs a website build from content fetch through publication.
package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jonathan/site-builder/internal/content"
	"github.com/jonathan/site-builder/internal/logging"
	"github.com/jonathan/site-builder/internal/metrics"
	"github.com/jonathan/site-builder/internal/publish"
	"github.com/jonathan/site-builder/internal/site"
	"github.com/jonathan/site-builder/internal/types"
	"github.com/jonathan/site-builder/internal/validation"
)

// ErrNoBio fails builds for users without an approved bio.
var ErrNoBio = errors.New("User has no approved bio content")

// Build steps reported through progress events
const (
	StepFetch          = "fetch_content"
	StepValidate       = "validate"
	StepGenerate       = "generate"
	StepCheckLinks     = "check_links"
	StepPublishPreview = "publish_preview"
	StepPublishLive    = "publish_live"
)

// ProgressEvent represents a progress update during a build
type ProgressEvent struct {
	BuildID uuid.UUID `json:"build_id"`
	Step    string    `json:"step"`
	Message string    `json:"message"`
}

// ProgressCallback is called when build progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for a single build
type RunOptions struct {
	PreviewOnly bool
	VersionName string
	OnProgress  ProgressCallback
}

// Outcome collects everything a build produced
type Outcome struct {
	Build       *types.Build
	Validation  types.ValidationResult
	Site        *types.RenderedSite
	BrokenLinks []string
	Preview     *publish.Result
	Live        *publish.Result
	Version     *types.SiteVersion
}

// Builder wires content, validation, generation and publication together.
// It is safe for concurrent builds; each run owns its bundle.
type Builder struct {
	provider  content.Provider
	validator *validation.Validator
	generator *site.Generator
	publisher publish.Publisher
	tracker   Tracker
	versions  VersionStore
	recorder  metrics.Recorder
	logger    *log.Logger
	clock     func() time.Time
}

// Option configures a Builder
type Option func(*Builder)

// WithValidator replaces the default validator
func WithValidator(v *validation.Validator) Option {
	return func(b *Builder) { b.validator = v }
}

// WithVersionStore records a site version after every publish
func WithVersionStore(s VersionStore) Option {
	return func(b *Builder) { b.versions = s }
}

// WithRecorder sets the metrics recorder
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the builder logger
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = logging.OrDiscard(l) }
}

// WithClock sets the clock used for durations and default version names
func WithClock(clock func() time.Time) Option {
	return func(b *Builder) { b.clock = clock }
}

// New creates a Builder. A nil tracker means builds are tracked in memory.
func New(provider content.Provider, generator *site.Generator, publisher publish.Publisher, tracker Tracker, opts ...Option) *Builder {
	if tracker == nil {
		tracker = NewMemoryTracker()
	}
	b := &Builder{
		provider:  provider,
		generator: generator,
		publisher: publisher,
		tracker:   tracker,
		recorder:  metrics.NoopRecorder{},
		logger:    logging.Discard(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.validator == nil {
		b.validator = validation.New(validation.WithLogger(b.logger))
	}
	return b
}

// Tracker returns the tracker builds are recorded in
func (b *Builder) Tracker() Tracker {
	return b.tracker
}

// Start records a queued build for userID
func (b *Builder) Start(ctx context.Context, userID uuid.UUID) (*types.Build, error) {
	build, err := b.tracker.CreateBuild(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create build: %w", err)
	}
	b.logger.Info("build queued", "build_id", build.ID, "user_id", userID)
	return build, nil
}

// Run executes a queued build. The build record ends in complete with the
// preview URL, or in error with the failure message.
func (b *Builder) Run(ctx context.Context, buildID, userID uuid.UUID, opts RunOptions) (*Outcome, error) {
	started := b.clock()
	logger := b.logger.With("build_id", buildID, "user_id", userID)

	if _, err := b.tracker.UpdateBuildStatus(ctx, buildID, types.BuildInProgress, "", ""); err != nil {
		return nil, fmt.Errorf("failed to mark build in progress: %w", err)
	}

	outcome, runErr := b.execute(ctx, logger, buildID, userID, opts)
	b.recorder.ObserveBuildDuration(b.clock().Sub(started))

	if runErr != nil {
		logger.Error("build failed", "err", runErr)
		b.recorder.IncBuild(string(types.BuildError))
		// The run context may already be done; the failure must still be recorded.
		record, err := b.tracker.UpdateBuildStatus(context.WithoutCancel(ctx), buildID, types.BuildError, "", runErr.Error())
		if err != nil {
			logger.Error("failed to record build error", "err", err)
		}
		outcome.Build = record
		return outcome, runErr
	}

	record, err := b.tracker.UpdateBuildStatus(ctx, buildID, types.BuildComplete, outcome.Preview.PublicURL, "")
	if err != nil {
		return outcome, fmt.Errorf("failed to mark build complete: %w", err)
	}
	outcome.Build = record
	b.recorder.IncBuild(string(types.BuildComplete))
	logger.Info("build complete", "preview_url", outcome.Preview.PublicURL, "duration", b.clock().Sub(started))
	return outcome, nil
}

// Build creates a build record and runs it synchronously
func (b *Builder) Build(ctx context.Context, userID uuid.UUID, opts RunOptions) (*Outcome, error) {
	build, err := b.Start(ctx, userID)
	if err != nil {
		return nil, err
	}
	return b.Run(ctx, build.ID, userID, opts)
}

func (b *Builder) execute(ctx context.Context, logger *log.Logger, buildID, userID uuid.UUID, opts RunOptions) (*Outcome, error) {
	outcome := &Outcome{}
	progress := func(step, message string) {
		logger.Debug(message, "step", step)
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressEvent{BuildID: buildID, Step: step, Message: message})
		}
	}

	progress(StepFetch, "fetching content")
	bundle, err := b.provider.FetchContent(ctx, userID)
	if err != nil {
		return outcome, fmt.Errorf("failed to fetch content: %w", err)
	}
	if bundle == nil || bundle.Bio == nil {
		return outcome, ErrNoBio
	}

	progress(StepValidate, "validating content")
	result := b.validator.Validate(bundle)
	outcome.Validation = result
	b.recorder.ObserveValidation(len(result.Errors), len(result.Warnings))
	for _, w := range result.Warnings {
		logger.Warn("content warning", "warning", w)
	}
	if err := validation.AsError(result); err != nil {
		return outcome, err
	}
	cleaned := b.validator.Clean(bundle)

	progress(StepGenerate, "generating pages")
	rendered, err := b.generator.Generate(cleaned)
	if err != nil {
		return outcome, err
	}
	outcome.Site = rendered
	b.recorder.AddPagesGenerated(len(rendered.Pages))

	progress(StepCheckLinks, "checking internal links")
	broken, err := site.CheckLinks(rendered)
	if err != nil {
		logger.Warn("link check failed", "err", err)
	}
	outcome.BrokenLinks = broken
	for _, link := range broken {
		logger.Warn("broken internal link", "link", link)
	}

	progress(StepPublishPreview, "publishing preview")
	preview, err := b.publisher.Publish(ctx, userID, rendered, true)
	if err != nil {
		return outcome, fmt.Errorf("failed to publish preview: %w", err)
	}
	outcome.Preview = preview

	final := preview
	if !opts.PreviewOnly {
		progress(StepPublishLive, "publishing site")
		live, err := b.publisher.Publish(ctx, userID, rendered, false)
		if err != nil {
			return outcome, fmt.Errorf("failed to publish site: %w", err)
		}
		outcome.Live = live
		final = live
	}

	if b.versions != nil {
		version, err := b.versions.SaveSiteVersion(ctx, &types.SiteVersion{
			UserID:      userID,
			VersionName: b.versionName(opts),
			StoragePath: final.StoragePath,
			Content:     rendered.Pages[site.PathHome],
			IsPreview:   opts.PreviewOnly,
		})
		if err != nil {
			return outcome, fmt.Errorf("failed to record site version: %w", err)
		}
		outcome.Version = version
	}

	return outcome, nil
}

func (b *Builder) versionName(opts RunOptions) string {
	if opts.VersionName != "" {
		return opts.VersionName
	}
	return "Version " + b.clock().UTC().Format(time.RFC3339)
}
