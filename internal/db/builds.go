package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/site-builder/internal/types"
)

const buildColumns = `id, user_id, status, COALESCE(preview_url, ''), COALESCE(error_message, ''), created_at, updated_at`

func scanBuild(row pgx.Row) (*types.Build, error) {
	var b types.Build
	var status string
	if err := row.Scan(&b.ID, &b.UserID, &status, &b.PreviewURL, &b.ErrorMessage, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Status = types.BuildStatus(status)
	return &b, nil
}

// CreateBuild inserts a queued build for a user
func (db *DB) CreateBuild(ctx context.Context, userID uuid.UUID) (*types.Build, error) {
	b, err := scanBuild(db.pool.QueryRow(ctx,
		`INSERT INTO website_builds (user_id, status)
		 VALUES ($1, $2)
		 RETURNING `+buildColumns,
		userID, string(types.BuildQueued),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create build: %w", err)
	}
	return b, nil
}

// UpdateBuildStatus moves a build to a new status. The preview URL is kept when
// empty, and the error message is only stored for failed builds.
func (db *DB) UpdateBuildStatus(ctx context.Context, buildID uuid.UUID, status types.BuildStatus, previewURL, errorMessage string) (*types.Build, error) {
	var errMsg *string
	if status == types.BuildError && errorMessage != "" {
		errMsg = &errorMessage
	}
	var preview *string
	if previewURL != "" {
		preview = &previewURL
	}

	b, err := scanBuild(db.pool.QueryRow(ctx,
		`UPDATE website_builds
		 SET status = $2,
		     preview_url = COALESCE($3, preview_url),
		     error_message = COALESCE($4, error_message),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+buildColumns,
		buildID, string(status), preview, errMsg,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update build %s: %w", buildID, err)
	}
	return b, nil
}

// GetBuild retrieves a build by ID
func (db *DB) GetBuild(ctx context.Context, buildID uuid.UUID) (*types.Build, error) {
	b, err := scanBuild(db.pool.QueryRow(ctx,
		`SELECT `+buildColumns+` FROM website_builds WHERE id = $1`,
		buildID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get build: %w", err)
	}
	return b, nil
}

// GetLatestBuild retrieves the most recent build for a user
func (db *DB) GetLatestBuild(ctx context.Context, userID uuid.UUID) (*types.Build, error) {
	b, err := scanBuild(db.pool.QueryRow(ctx,
		`SELECT `+buildColumns+` FROM website_builds
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest build: %w", err)
	}
	return b, nil
}
