package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/config"
	"github.com/jonathan/site-builder/internal/content"
	"github.com/jonathan/site-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validBundle   = "testdata/jane.yaml"
	invalidBundle = "testdata/invalid.json"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.OutputDir = t.TempDir()
	cfg.BaseURL = "http://localhost:8080/files"
	cfg.LogLevel = "error"
	return cfg
}

func TestValidateContent_Valid(t *testing.T) {
	var buf bytes.Buffer
	result, err := validateContent(&buf, validBundle, validateOptions{})
	require.NoError(t, err)

	assert.True(t, result.IsValid, result.Errors)
	assert.Contains(t, buf.String(), "Content is valid")
	// the mastodon link has no icon of its own
	assert.Contains(t, buf.String(), "warning: Social link 1: Using default icon")
}

func TestValidateContent_Invalid(t *testing.T) {
	var buf bytes.Buffer
	out := filepath.Join(t.TempDir(), "clean.json")
	result, err := validateContent(&buf, invalidBundle, validateOptions{Output: out})
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "Missing required bio.name")
	assert.Contains(t, result.Errors, "Story chunk 0: Missing content")
	assert.Contains(t, result.Errors, "Social link 0: Invalid URL format")
	assert.Contains(t, buf.String(), "Content is invalid")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "cleaned bundle must not be written for invalid content")
}

func TestValidateContent_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	_, err := validateContent(&buf, invalidBundle, validateOptions{JSON: true})
	require.NoError(t, err)

	var result types.ValidationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Errors)
}

func TestValidateContent_VerboseUsesPrinter(t *testing.T) {
	var buf bytes.Buffer
	_, err := validateContent(&buf, validBundle, validateOptions{Verbose: true})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "CONTENT BUNDLE")
	assert.Contains(t, buf.String(), "Jane Doe")
	assert.Contains(t, buf.String(), "CONTENT VALIDATION")
}

func TestValidateContent_WritesCleanedBundle(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "clean.json")
	_, err := validateContent(&bytes.Buffer{}, validBundle, validateOptions{Output: out})
	require.NoError(t, err)

	cleaned, err := content.LoadFile(out)
	require.NoError(t, err)
	require.Len(t, cleaned.SocialLinks, 2)
	assert.Equal(t, "mastodon", cleaned.SocialLinks[1].Platform)
	assert.NotEmpty(t, cleaned.SocialLinks[1].Icon)
}

func TestValidateContent_MissingFile(t *testing.T) {
	_, err := validateContent(&bytes.Buffer{}, "testdata/nope.yaml", validateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestBuildSite_PublishesPreviewAndLive(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer

	outcome, err := buildSite(context.Background(), &buf, cfg, buildOptions{ContentFile: validBundle})
	require.NoError(t, err)

	assert.Equal(t, types.BuildComplete, outcome.Build.Status)
	require.NotNil(t, outcome.Live)
	assert.Contains(t, buf.String(), "Preview: http://localhost:8080/files/previews/sites/")
	assert.Contains(t, buf.String(), "Live:    http://localhost:8080/files/websites/sites/")

	for _, bucket := range []string{"previews", "websites"} {
		matches, err := filepath.Glob(filepath.Join(cfg.OutputDir, bucket, "sites", "*", "*", "index.html"))
		require.NoError(t, err)
		require.Len(t, matches, 1, bucket)

		html, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		assert.Contains(t, string(html), "Jane Doe")
	}
}

func TestBuildSite_PreviewOnlyVerbose(t *testing.T) {
	cfg := testConfig(t)
	cfg.Verbose = true
	var buf bytes.Buffer

	outcome, err := buildSite(context.Background(), &buf, cfg, buildOptions{ContentFile: validBundle, PreviewOnly: true})
	require.NoError(t, err)

	assert.Nil(t, outcome.Live)
	output := buf.String()
	assert.Contains(t, output, "GENERATED SITE")
	assert.Contains(t, output, "PUBLISHED")
	assert.Contains(t, output, "Preview (")
	assert.NotContains(t, output, "Live:")

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "websites"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildSite_InvalidContentFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Verbose = true
	var buf bytes.Buffer

	outcome, err := buildSite(context.Background(), &buf, cfg, buildOptions{ContentFile: invalidBundle})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build failed")
	require.NotNil(t, outcome)
	assert.Equal(t, types.BuildError, outcome.Build.Status)
	assert.Contains(t, buf.String(), "CONTENT VALIDATION")
	assert.NotContains(t, buf.String(), "PUBLISHED")
}

func TestBuildSite_UsesContentDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.ContentDir = t.TempDir()
	userID := uuid.New()

	data, err := os.ReadFile(validBundle)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ContentDir, userID.String()+".yaml"), data, 0644))

	var buf bytes.Buffer
	_, err = buildSite(context.Background(), &buf, cfg, buildOptions{UserID: userID.String(), PreviewOnly: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "/previews/sites/"+userID.String()+"/")
}

func TestBuildSite_NoContentSource(t *testing.T) {
	cfg := testConfig(t)
	_, err := buildSite(context.Background(), &bytes.Buffer{}, cfg, buildOptions{UserID: uuid.NewString()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content source")
}

func TestResolveUserID(t *testing.T) {
	id := uuid.New()
	got, err := resolveUserID(id.String(), "")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = resolveUserID("jane", "")
	assert.Error(t, err)

	_, err = resolveUserID("", "")
	assert.Error(t, err)

	first, err := resolveUserID("", validBundle)
	require.NoError(t, err)
	second, err := resolveUserID("", "./"+validBundle)
	require.NoError(t, err)
	assert.Equal(t, first, second, "derived IDs are stable for the same file")
}

func TestRootCommand_Validate(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"validate", "--in", invalidBundle, "--json"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "content has "), err.Error())
	assert.Contains(t, buf.String(), `"is_valid": false`)
}
