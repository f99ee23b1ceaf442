// Package site turns the docs and blog sources into the static site: it
// collects content, renders it through the layouts and writes the output
// directory.
package site

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gunkustom/GunKustom-docs-internal/internal/blog"
	"github.com/gunkustom/GunKustom-docs-internal/internal/components"
	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
	"github.com/gunkustom/GunKustom-docs-internal/internal/content"
	"github.com/gunkustom/GunKustom-docs-internal/internal/diagram"
	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
	"github.com/gunkustom/GunKustom-docs-internal/internal/linkcheck"
	"github.com/gunkustom/GunKustom-docs-internal/internal/logfields"
	"github.com/gunkustom/GunKustom-docs-internal/internal/metrics"
	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
	"github.com/gunkustom/GunKustom-docs-internal/internal/policy"
)

// Build stages, used for logs and the stage duration metric.
const (
	StageClean   = "clean"
	StageStatic  = "static"
	StageLayouts = "layouts"
	StageCollect = "collect"
	StageRender  = "render"
	StagePages   = "pages"
	StageFeeds   = "feeds"
	StageLinks   = "links"
)

// CustomCSSPath is where the theme's custom stylesheet is written.
const CustomCSSPath = "/assets/css/custom.css"

// Builder builds the site found under Root into OutputDir.
type Builder struct {
	Root      string
	OutputDir string
	Site      config.Site
	Drafts    bool

	// Fetcher resolves diagram locators; nil reads them from Root/static.
	Fetcher        diagram.Fetcher
	DiagramTimeout time.Duration

	// LiveReload injects the reload script served by the livereload hub.
	LiveReload bool

	Logger   *slog.Logger
	Recorder metrics.Recorder
	Now      func() time.Time
}

// Result summarizes a successful build.
type Result struct {
	Docs        int
	Posts       int
	Pages       int
	BrokenLinks []linkcheck.Link
	Duration    time.Duration
}

// build holds the state of a single Build call.
type build struct {
	*Builder
	logger   *slog.Logger
	recorder metrics.Recorder
	reporter *policy.Reporter
	url      components.URLFor
	site     *model.SiteData
	blog     *blog.Blog
	styles   []string
	result   *Result
}

// Build runs every stage in order. Findings whose policy is throw fail the
// build after all pages are written, so every finding is reported at once.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := b.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	st := &build{
		Builder:  b,
		logger:   logger,
		recorder: recorder,
		reporter: policy.NewReporter(logger, recorder),
		url:      components.BaseURLFor(b.Site.BaseURL),
		result:   &Result{},
	}

	err := st.run(ctx)
	st.result.Duration = time.Since(start)
	recorder.ObserveBuildDuration(st.result.Duration)
	if err == nil {
		err = st.reporter.Err()
	}
	if err != nil {
		recorder.IncBuildOutcome(metrics.OutcomeFailed)
		logger.Error("Build failed", logfields.Since(start), logfields.Error(err))
		return st.result, err
	}
	recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	logger.Info("Build completed",
		slog.Int("docs", st.result.Docs),
		slog.Int("posts", st.result.Posts),
		slog.Int("pages", st.result.Pages),
		logfields.Since(start))
	return st.result, nil
}

func (st *build) run(ctx context.Context) error {
	if err := st.Site.Validate(); err != nil {
		return err
	}
	st.logger.Info("Starting build",
		logfields.Path(st.OutputDir),
		slog.String("base_url", st.Site.BaseURL),
		slog.String("title", st.Site.Title))
	for _, locale := range st.Site.I18n.Locales {
		if locale != st.Site.I18n.DefaultLocale {
			st.logger.Warn("Only the default locale is built, skipping", slog.String("locale", locale))
		}
	}

	for _, s := range []struct {
		name string
		fn   func() error
	}{
		{StageClean, st.clean},
		{StageStatic, st.copyStatic},
		{StageCollect, st.collect},
		{StageRender, st.render},
	} {
		if err := st.stage(ctx, s.name, s.fn); err != nil {
			return err
		}
	}

	var layouts map[string]*template.Template
	if err := st.stage(ctx, StageLayouts, func() error {
		var err error
		layouts, err = parseLayouts(filepath.Join(st.Root, config.LayoutsDir), st.funcs())
		return err
	}); err != nil {
		return err
	}
	if err := st.stage(ctx, StagePages, func() error { return st.writePages(layouts) }); err != nil {
		return err
	}
	if err := st.stage(ctx, StageFeeds, st.writeFeeds); err != nil {
		return err
	}
	return st.stage(ctx, StageLinks, st.checkLinks)
}

func (st *build) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return serrors.Wrap(err, serrors.CategoryBuild, "build cancelled").WithContext("stage", name)
	}
	start := time.Now()
	err := fn()
	st.recorder.ObserveStageDuration(name, time.Since(start))
	st.logger.Debug("Stage finished", logfields.Stage(name), logfields.Since(start))
	if err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	return nil
}

func (st *build) clean() error {
	out := st.OutputDir
	if out == "" || filepath.Clean(out) == "." || filepath.Clean(out) == filepath.Clean(st.Root) {
		return serrors.New(serrors.CategoryConfig, "refusing to clean the source directory").WithContext("output", out)
	}
	st.logger.Debug("Cleaning output directory", logfields.Path(out))
	if err := os.RemoveAll(out); err != nil {
		return serrors.Wrap(err, serrors.CategoryFileSystem, fmt.Sprintf("failed to remove output directory '%s'", out))
	}
	if err := os.MkdirAll(out, os.ModePerm); err != nil {
		return serrors.Wrap(err, serrors.CategoryFileSystem, fmt.Sprintf("failed to create output directory '%s'", out))
	}
	return nil
}

func (st *build) copyStatic() error {
	staticDir := filepath.Join(st.Root, config.StaticDir)
	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		st.logger.Debug("Copying static assets", logfields.Path(staticDir))
		if err := copyDirContents(staticDir, st.OutputDir, st.logger); err != nil {
			return serrors.Wrap(err, serrors.CategoryFileSystem, "failed to copy static assets")
		}
	} else {
		st.logger.Debug("Static assets directory not found, skipping copy", logfields.Path(staticDir))
	}

	if css := st.Site.Theme.CustomCSS; css != "" {
		src := filepath.Join(st.Root, filepath.FromSlash(css))
		if _, err := os.Stat(src); err != nil {
			st.logger.Warn("Custom CSS not found, skipping", logfields.Path(src))
			return nil
		}
		dst := filepath.Join(st.OutputDir, filepath.FromSlash(strings.TrimPrefix(CustomCSSPath, "/")))
		if err := copyFile(src, dst, st.logger); err != nil {
			return serrors.Wrap(err, serrors.CategoryFileSystem, "failed to copy custom CSS")
		}
		st.styles = append(st.styles, st.url(CustomCSSPath))
	}
	return nil
}

func (st *build) collect() error {
	c := &content.Collector{Root: st.Root, EditURL: st.Site.Docs.EditURL, Drafts: st.Drafts, Logger: st.logger}
	docs, err := c.Collect(config.DocsDir, model.KindDoc)
	if err != nil {
		return err
	}
	c.EditURL = st.Site.Blog.EditURL
	posts, err := c.Collect(config.BlogDir, model.KindPost)
	if err != nil {
		return err
	}

	st.site = &model.SiteData{
		Config:       st.Site,
		Docs:         docs,
		Posts:        posts,
		ContentByURL: make(map[string]*model.ContentItem, len(docs)+len(posts)),
	}
	for _, item := range append(append([]*model.ContentItem(nil), docs...), posts...) {
		if prev, ok := st.site.ContentByURL[item.Permalink]; ok {
			return serrors.New(serrors.CategoryValidation, "duplicate permalink").
				WithContext("permalink", item.Permalink).
				WithContext("sources", []string{prev.SourcePath, item.SourcePath})
		}
		st.site.ContentByURL[item.Permalink] = item
	}
	st.result.Docs, st.result.Posts = len(docs), len(posts)
	st.logger.Info("Collected content", slog.Int("docs", len(docs)), slog.Int("posts", len(posts)))
	return nil
}

func (st *build) render() error {
	fetcher := st.Fetcher
	if fetcher == nil {
		fetcher = diagram.FSFetcher{
			FS:          os.DirFS(filepath.Join(st.Root, config.StaticDir)),
			StripPrefix: st.Site.BaseURL,
		}
	}
	ext := &diagram.Extension{
		Fetcher:  fetcher,
		Logger:   st.logger,
		Recorder: st.recorder,
		Timeout:  st.DiagramTimeout,
	}
	r := content.NewRenderer(content.NewIndex(st.site.Docs, st.site.Posts), st.url, ext)
	for _, items := range [][]*model.ContentItem{st.site.Docs, st.site.Posts} {
		for _, item := range items {
			if err := r.Render(item); err != nil {
				return err
			}
		}
	}
	for _, l := range r.BrokenLinks() {
		st.reporter.Report(policy.BrokenMarkdownLink, st.Site.OnBrokenMarkdownLinks,
			"Markdown link does not resolve to a document",
			logfields.Path(l.Source), slog.String("target", l.Target))
	}

	meta, err := blog.LoadMeta(filepath.Join(st.Root, config.BlogDir))
	if err != nil {
		return err
	}
	st.blog = blog.Prepare(st.site.Posts, meta, st.Site.Blog, st.reporter)
	st.site.Posts = st.blog.Posts
	st.site.Authors = st.blog.Authors
	st.site.Tags = st.blog.Tags
	st.site.PostsByTag = st.blog.PostsByTag
	st.site.Sidebar = content.BuildSidebar(st.Site.Docs.SidebarID, st.site.Docs)
	return nil
}

func (st *build) writeFeeds() error {
	if len(st.site.Posts) == 0 {
		return nil
	}
	feedSite := blog.NewFeedSite(st.Site)
	xslt := st.Site.Blog.Feed.XSLT
	now := st.now()
	for _, kind := range st.Site.Blog.Feed.Types {
		var (
			data  []byte
			err   error
			file  string
			sheet []byte
			name  string
		)
		switch kind {
		case "rss":
			data, err = st.blog.RSS(feedSite, xslt, now)
			file, sheet, name = blog.RSSFile, blog.RSSStylesheet, "rss.xsl"
		case "atom":
			data, err = st.blog.Atom(feedSite, xslt, now)
			file, sheet, name = blog.AtomFile, blog.AtomStylesheet, "atom.xsl"
		default:
			continue
		}
		if err != nil {
			return serrors.Wrap(err, serrors.CategoryRender, "failed to render "+kind+" feed")
		}
		if err := writeFile(st.OutputDir, path.Join(config.BlogDir, file), data); err != nil {
			return serrors.Wrap(err, serrors.CategoryFileSystem, "failed to write "+kind+" feed")
		}
		if xslt {
			if err := writeFile(st.OutputDir, path.Join(config.BlogDir, name), sheet); err != nil {
				return serrors.Wrap(err, serrors.CategoryFileSystem, "failed to write "+name)
			}
		}
		st.logger.Debug("Wrote feed", logfields.Path(path.Join(config.BlogDir, file)))
	}
	return nil
}

func (st *build) checkLinks() error {
	if st.Site.OnBrokenLinks == config.PolicyIgnore {
		return nil
	}
	broken, err := linkcheck.Checker{Output: os.DirFS(st.OutputDir), BaseURL: st.Site.BaseURL}.Check()
	if err != nil {
		return err
	}
	st.result.BrokenLinks = broken
	for _, l := range broken {
		st.reporter.Report(policy.BrokenLink, st.Site.OnBrokenLinks,
			"Broken link", logfields.Path(l.Page), slog.String("target", l.Target))
	}
	return nil
}

func (st *build) now() time.Time {
	if st.Now != nil {
		return st.Now()
	}
	return time.Now()
}
