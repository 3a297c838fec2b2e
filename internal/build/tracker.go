package build

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/types"
)

// Tracker persists build records
type Tracker interface {
	CreateBuild(ctx context.Context, userID uuid.UUID) (*types.Build, error)
	UpdateBuildStatus(ctx context.Context, buildID uuid.UUID, status types.BuildStatus, previewURL, errorMessage string) (*types.Build, error)
	GetBuild(ctx context.Context, buildID uuid.UUID) (*types.Build, error)
	GetLatestBuild(ctx context.Context, userID uuid.UUID) (*types.Build, error)
}

// VersionStore records published site versions
type VersionStore interface {
	SaveSiteVersion(ctx context.Context, v *types.SiteVersion) (*types.SiteVersion, error)
}

// MemoryTracker keeps builds in process memory. Lookups return copies.
type MemoryTracker struct {
	mu     sync.RWMutex
	builds map[uuid.UUID]*types.Build
	clock  func() time.Time
}

// NewMemoryTracker creates an empty tracker
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		builds: make(map[uuid.UUID]*types.Build),
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// CreateBuild registers a queued build
func (t *MemoryTracker) CreateBuild(_ context.Context, userID uuid.UUID) (*types.Build, error) {
	now := t.clock()
	b := &types.Build{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    types.BuildQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.mu.Lock()
	t.builds[b.ID] = b
	t.mu.Unlock()

	out := *b
	return &out, nil
}

// UpdateBuildStatus moves a build to status. An empty preview URL keeps the
// previous one, and error messages are only stored for failed builds.
// Unknown builds return nil.
func (t *MemoryTracker) UpdateBuildStatus(_ context.Context, buildID uuid.UUID, status types.BuildStatus, previewURL, errorMessage string) (*types.Build, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.builds[buildID]
	if !ok {
		return nil, nil
	}
	b.Status = status
	b.UpdatedAt = t.clock()
	if previewURL != "" {
		b.PreviewURL = previewURL
	}
	if status == types.BuildError && errorMessage != "" {
		b.ErrorMessage = errorMessage
	}
	out := *b
	return &out, nil
}

// GetBuild returns a build or nil when unknown
func (t *MemoryTracker) GetBuild(_ context.Context, buildID uuid.UUID) (*types.Build, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	b, ok := t.builds[buildID]
	if !ok {
		return nil, nil
	}
	out := *b
	return &out, nil
}

// GetLatestBuild returns the most recently created build for a user
func (t *MemoryTracker) GetLatestBuild(_ context.Context, userID uuid.UUID) (*types.Build, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var mine []*types.Build
	for _, b := range t.builds {
		if b.UserID == userID {
			mine = append(mine, b)
		}
	}
	if len(mine) == 0 {
		return nil, nil
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	out := *mine[0]
	return &out, nil
}
