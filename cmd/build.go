package cmd

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
	"github.com/gunkustom/GunKustom-docs-internal/internal/diagram"
	"github.com/gunkustom/GunKustom-docs-internal/internal/logfields"
	"github.com/gunkustom/GunKustom-docs-internal/internal/metrics"
	"github.com/gunkustom/GunKustom-docs-internal/internal/site"
)

// newBuildCmd returns the build command.
func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Builds the static site from docs, blog posts, layouts, and static assets",
		Long: `The build command processes Markdown files from './docs/' and './blog/',
extracts frontmatter, renders pages through the layouts (built in, or overridden
from './layouts/'), renders diagram blocks, copies static assets from './static/',
and generates the site in the configured output directory (default './build/').
Broken links fail the build when the site's onBrokenLinks policy is throw.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSite()
			if err != nil {
				return err
			}
			b, err := newBuilder(s, metrics.NoopRecorder{})
			if err != nil {
				return err
			}
			res, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("Site written", logfields.Path(appConfig.OutputDir), logfields.Count(res.Pages))
			return nil
		},
	}
	addBuildFlags(cmd)
	return cmd
}
