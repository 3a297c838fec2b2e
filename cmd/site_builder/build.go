package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/site-builder/internal/build"
	"github.com/jonathan/site-builder/internal/config"
	"github.com/jonathan/site-builder/internal/observability"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build and publish a user's site",
	Long: `Fetches a user's approved content, validates and cleans it, renders every page and
publishes a preview. Unless --preview-only is set the site is also published live and
recorded as a new version.

Content comes from --in, else DATABASE_URL, else CONTENT_DIR/<user>.json|yaml.`,
	RunE: runBuild,
}

var (
	buildInput       string
	buildUser        string
	buildOutDir      string
	buildBaseURL     string
	buildTemplates   string
	buildPreviewOnly bool
	buildVersionName string
)

func init() {
	buildCmd.Flags().StringVarP(&buildInput, "in", "i", "", "Path to a content bundle JSON or YAML file")
	buildCmd.Flags().StringVarP(&buildUser, "user", "u", "", "User ID (defaults to an ID derived from --in)")
	buildCmd.Flags().StringVarP(&buildOutDir, "out-dir", "o", "", "Root directory for published sites")
	buildCmd.Flags().StringVar(&buildBaseURL, "base-url", "", "Public URL prefix of the output directory")
	buildCmd.Flags().StringVar(&buildTemplates, "templates", "", "Directory of templates overriding the built-in set")
	buildCmd.Flags().BoolVar(&buildPreviewOnly, "preview-only", false, "Publish the preview only")
	buildCmd.Flags().StringVar(&buildVersionName, "version-name", "", "Name for the recorded version")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if buildOutDir != "" {
		cfg.OutputDir = buildOutDir
	}
	if buildBaseURL != "" {
		cfg.BaseURL = buildBaseURL
	}
	if buildTemplates != "" {
		cfg.TemplatesDir = buildTemplates
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	_, err = buildSite(cmd.Context(), cmd.OutOrStdout(), cfg, buildOptions{
		ContentFile: buildInput,
		UserID:      buildUser,
		PreviewOnly: buildPreviewOnly,
		VersionName: buildVersionName,
	})
	return err
}

type buildOptions struct {
	ContentFile string
	UserID      string
	PreviewOnly bool
	VersionName string
}

// buildSite runs one build to completion and reports where it was published
func buildSite(ctx context.Context, out io.Writer, cfg config.Config, opts buildOptions) (*build.Outcome, error) {
	userID, err := resolveUserID(opts.UserID, opts.ContentFile)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)
	a, err := newApp(ctx, cfg, logger, appOptions{ContentFile: opts.ContentFile})
	if err != nil {
		return nil, err
	}
	defer a.Close()

	outcome, err := a.builder.Build(ctx, userID, build.RunOptions{
		PreviewOnly: opts.PreviewOnly,
		VersionName: opts.VersionName,
	})

	if cfg.Verbose && outcome != nil {
		p := observability.NewPrinter(out)
		// Errors stays nil when the build failed before validation
		if outcome.Validation.Errors != nil {
			p.PrintValidation(outcome.Validation)
		}
		if outcome.Site != nil {
			p.PrintSite(outcome.Site)
			p.PrintBrokenLinks(outcome.BrokenLinks)
		}
		p.PrintPublished(outcome.Preview, outcome.Live)
	}
	if err != nil {
		return outcome, fmt.Errorf("build failed: %w", err)
	}

	fmt.Fprintf(out, "Build %s complete\n", outcome.Build.ID)
	fmt.Fprintf(out, "Preview: %s\n", outcome.Preview.PublicURL)
	if outcome.Live != nil {
		fmt.Fprintf(out, "Live:    %s\n", outcome.Live.PublicURL)
	}
	return outcome, nil
}
