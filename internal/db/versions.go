package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/types"
)

// SaveSiteVersion records a published site. Live versions become the user's
// active version; previews never change which version is active.
func (db *DB) SaveSiteVersion(ctx context.Context, v *types.SiteVersion) (*types.SiteVersion, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	active := !v.IsPreview
	if active {
		if _, err := tx.Exec(ctx,
			`UPDATE website_versions SET is_active = FALSE WHERE user_id = $1`,
			v.UserID,
		); err != nil {
			return nil, fmt.Errorf("failed to deactivate versions: %w", err)
		}
	}

	saved := *v
	saved.IsActive = active
	err = tx.QueryRow(ctx,
		`INSERT INTO website_versions (user_id, version_name, storage_path, content, is_preview, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		v.UserID, v.VersionName, v.StoragePath, v.Content, v.IsPreview, active,
	).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save site version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit site version: %w", err)
	}
	return &saved, nil
}

// ActivateVersion makes one of a user's versions the only active one.
// It reports false when the version does not belong to the user.
func (db *DB) ActivateVersion(ctx context.Context, userID, versionID uuid.UUID) (bool, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`UPDATE website_versions SET is_active = FALSE WHERE user_id = $1`,
		userID,
	); err != nil {
		return false, fmt.Errorf("failed to deactivate versions: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE website_versions SET is_active = TRUE WHERE id = $1 AND user_id = $2`,
		versionID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to activate version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit activation: %w", err)
	}
	return true, nil
}

// ListSiteVersions returns a user's versions, newest first, without page content
func (db *DB) ListSiteVersions(ctx context.Context, userID uuid.UUID) ([]types.SiteVersion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, version_name, storage_path, is_preview, is_active, created_at
		 FROM website_versions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list site versions: %w", err)
	}
	defer rows.Close()

	var versions []types.SiteVersion
	for rows.Next() {
		var v types.SiteVersion
		if err := rows.Scan(&v.ID, &v.UserID, &v.VersionName, &v.StoragePath, &v.IsPreview, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan site version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read site versions: %w", err)
	}
	return versions, nil
}
