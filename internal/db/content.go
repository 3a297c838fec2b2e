package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/site-builder/internal/content"
	"github.com/jonathan/site-builder/internal/types"
	"golang.org/x/sync/errgroup"
)

const (
	bioQuery = `SELECT name, headline, summary, content, expertise
		FROM bios WHERE user_id = $1 AND is_final = TRUE
		ORDER BY created_at DESC LIMIT 1`
	imagesQuery = `SELECT type, url, alt_text
		FROM images WHERE user_id = $1 AND status = 'approved'
		ORDER BY created_at`
	styleQuery = `SELECT colors, typography, voice, themes
		FROM style_profiles WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC LIMIT 1`
	storyChunksQuery = `SELECT title, content, order_index, image
		FROM story_chunks WHERE user_id = $1 AND status = 'approved'
		ORDER BY created_at`
	valuesQuery = `SELECT title, description, order_index, icon
		FROM "values" WHERE user_id = $1 AND status = 'approved'
		ORDER BY created_at`
	socialLinksQuery = `SELECT platform, url, icon
		FROM social_links WHERE user_id = $1 AND status = 'approved'
		ORDER BY created_at`
	blogsQuery = `SELECT title, slug, content, excerpt, tags, published_at, thumbnail
		FROM blogs WHERE user_id = $1 AND status = 'approved'
		ORDER BY published_at DESC NULLS LAST`
	videosQuery = `SELECT title, url, type, thumbnail, description, tags
		FROM videos WHERE user_id = $1 AND status = 'approved'
		ORDER BY created_at DESC`
)

// FetchContent loads every approved content category for a user concurrently.
// Failures are collected per category and returned together as a
// *content.ContentFetchError.
func (db *DB) FetchContent(ctx context.Context, userID uuid.UUID) (*types.ContentBundle, error) {
	bundle := &types.ContentBundle{}

	var mu sync.Mutex
	failures := map[string]error{}

	fetchers := map[string]func(context.Context) error{
		content.CategoryBio: func(ctx context.Context) (err error) {
			bundle.Bio, err = db.fetchBio(ctx, userID)
			return err
		},
		content.CategoryImages: func(ctx context.Context) (err error) {
			bundle.Images, err = db.fetchImages(ctx, userID)
			return err
		},
		content.CategoryStyle: func(ctx context.Context) (err error) {
			bundle.Style, err = db.fetchStyle(ctx, userID)
			return err
		},
		content.CategoryStoryChunks: func(ctx context.Context) (err error) {
			bundle.StoryChunks, err = db.fetchStoryChunks(ctx, userID)
			return err
		},
		content.CategoryValues: func(ctx context.Context) (err error) {
			bundle.Values, err = db.fetchValues(ctx, userID)
			return err
		},
		content.CategorySocialLinks: func(ctx context.Context) (err error) {
			bundle.SocialLinks, err = db.fetchSocialLinks(ctx, userID)
			return err
		},
		content.CategoryBlogs: func(ctx context.Context) (err error) {
			bundle.Blogs, err = db.fetchBlogs(ctx, userID)
			return err
		},
		content.CategoryVideos: func(ctx context.Context) (err error) {
			bundle.Videos, err = db.fetchVideos(ctx, userID)
			return err
		},
	}

	// Each fetcher writes a distinct bundle field, so only the failure map is shared.
	var g errgroup.Group
	for _, category := range content.Categories {
		fetch := fetchers[category]
		g.Go(func() error {
			if err := fetch(ctx); err != nil {
				mu.Lock()
				failures[category] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		return nil, &content.ContentFetchError{Categories: failures}
	}

	content.Normalize(bundle)
	bundle.Metadata = types.NewMetadata(bundle, time.Now().UTC())
	return bundle, nil
}

func (db *DB) fetchBio(ctx context.Context, userID uuid.UUID) (*types.Bio, error) {
	var bio types.Bio
	err := db.pool.QueryRow(ctx, bioQuery, userID).
		Scan(&bio.Name, &bio.Headline, &bio.Summary, &bio.Content, &bio.Expertise)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bio: %w", err)
	}
	return &bio, nil
}

func (db *DB) fetchImages(ctx context.Context, userID uuid.UUID) (*types.Images, error) {
	rows, err := db.pool.Query(ctx, imagesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	images := &types.Images{}
	for rows.Next() {
		var kind string
		var img types.Image
		if err := rows.Scan(&kind, &img.URL, &img.Alt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		// Later rows of the same type win; unknown types are ignored.
		images.Set(kind, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read images: %w", err)
	}
	return images, nil
}

func (db *DB) fetchStyle(ctx context.Context, userID uuid.UUID) (*types.StyleProfile, error) {
	var style types.StyleProfile
	err := db.pool.QueryRow(ctx, styleQuery, userID).
		Scan(&style.Colors, &style.Typography, &style.Voice, &style.Themes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get style profile: %w", err)
	}
	return &style, nil
}

func (db *DB) fetchStoryChunks(ctx context.Context, userID uuid.UUID) ([]types.StoryChunk, error) {
	rows, err := db.pool.Query(ctx, storyChunksQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query story chunks: %w", err)
	}
	chunks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.StoryChunk, error) {
		var c types.StoryChunk
		err := row.Scan(&c.Title, &c.Content, &c.OrderIndex, &c.Image)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan story chunks: %w", err)
	}
	return chunks, nil
}

func (db *DB) fetchValues(ctx context.Context, userID uuid.UUID) ([]types.Value, error) {
	rows, err := db.pool.Query(ctx, valuesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query values: %w", err)
	}
	values, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.Value, error) {
		var v types.Value
		err := row.Scan(&v.Title, &v.Description, &v.OrderIndex, &v.Icon)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan values: %w", err)
	}
	return values, nil
}

func (db *DB) fetchSocialLinks(ctx context.Context, userID uuid.UUID) ([]types.SocialLink, error) {
	rows, err := db.pool.Query(ctx, socialLinksQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query social links: %w", err)
	}
	links, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.SocialLink, error) {
		var l types.SocialLink
		err := row.Scan(&l.Platform, &l.URL, &l.Icon)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan social links: %w", err)
	}
	return links, nil
}

func (db *DB) fetchBlogs(ctx context.Context, userID uuid.UUID) ([]types.BlogPost, error) {
	rows, err := db.pool.Query(ctx, blogsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query blogs: %w", err)
	}
	blogs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.BlogPost, error) {
		var b types.BlogPost
		var publishedAt *time.Time
		err := row.Scan(&b.Title, &b.Slug, &b.Content, &b.Excerpt, &b.Tags, &publishedAt, &b.Thumbnail)
		b.PublishedAt = formatTimestamp(publishedAt)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan blogs: %w", err)
	}
	return blogs, nil
}

func (db *DB) fetchVideos(ctx context.Context, userID uuid.UUID) ([]types.Video, error) {
	rows, err := db.pool.Query(ctx, videosQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	videos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.Video, error) {
		var v types.Video
		err := row.Scan(&v.Title, &v.URL, &v.Type, &v.Thumbnail, &v.Description, &v.Tags)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan videos: %w", err)
	}
	return videos, nil
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
