package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
	"github.com/gunkustom/GunKustom-docs-internal/internal/livereload"
	"github.com/gunkustom/GunKustom-docs-internal/internal/logfields"
	"github.com/gunkustom/GunKustom-docs-internal/internal/metrics"
	"github.com/gunkustom/GunKustom-docs-internal/internal/site"
)

const debounceDuration = 500 * time.Millisecond

// newServeCmd returns the serve command.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the site locally and watches for changes",
		Long: `The serve command performs an initial build of your site, then starts a local
web server for the output directory under the site's base URL. It watches the
docs, blog, static and layouts directories and the site file, rebuilds on change,
and tells open pages to reload.`,
		RunE: runServe,
	}
	defaults := config.Defaults()
	cmd.Flags().IntP("port", "p", defaults.Port, "Port to serve the site on")
	cmd.Flags().Bool("metrics", false, "expose Prometheus metrics at /metrics")
	addBuildFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := loadSite()
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var metricsHandler http.Handler
	if appConfig.Metrics {
		prom := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
		recorder, metricsHandler = prom, prom.Handler()
	}

	b, err := newBuilder(s, recorder)
	if err != nil {
		return err
	}
	b.LiveReload = true

	logger.Info("Performing initial build")
	if _, err := b.Build(ctx); err != nil {
		return fmt.Errorf("initial build failed, fix the issues and try again: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	hub := livereload.NewHub(logger)
	r := &rebuilder{ctx: ctx, builder: b, hub: hub, debounce: debounceDuration}
	go watchLoop(ctx, watcher, r.trigger)
	for _, p := range watchPaths(s) {
		addWatch(watcher, p)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", appConfig.Port),
		Handler:           newServeHandler(appConfig.OutputDir, s.BaseURL, hub, metricsHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("Serving site",
		slog.String("url", fmt.Sprintf("http://localhost:%d%s", appConfig.Port, s.BaseURL)),
		logfields.Path(appConfig.OutputDir))
	if metricsHandler != nil {
		logger.Info("Metrics enabled", slog.String("url", fmt.Sprintf("http://localhost:%d/metrics", appConfig.Port)))
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// rebuilder debounces change events into one build at a time.
type rebuilder struct {
	ctx      context.Context
	builder  *site.Builder
	hub      *livereload.Hub
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer

	buildMu sync.Mutex
}

func (r *rebuilder) trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, r.rebuild)
}

func (r *rebuilder) rebuild() {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	s, err := loadSite()
	if err != nil {
		logger.Error("Site record is invalid, keeping the previous build", logfields.Error(err))
		return
	}
	if s.BaseURL != r.builder.Site.BaseURL {
		logger.Warn("Base URL changed, restart serve to mount it", slog.String("base_url", s.BaseURL))
	}
	r.builder.Site = s

	logger.Info("Rebuilding site due to changes")
	if _, err := r.builder.Build(r.ctx); err != nil {
		return
	}
	n := r.hub.Broadcast(r.ctx, livereload.ReloadMessage)
	logger.Info("Site rebuilt", slog.Int("clients", n))
}

func watchPaths(s config.Site) []string {
	paths := []string{config.DocsDir, config.BlogDir, config.StaticDir, config.LayoutsDir}
	if s.Theme.CustomCSS != "" {
		paths = append(paths, filepath.FromSlash(s.Theme.CustomCSS))
	}
	if appConfig.SiteFile != "" {
		paths = append(paths, appConfig.SiteFile)
	}
	return paths
}

// addWatch watches a file, or a directory and all of its subdirectories.
func addWatch(watcher *fsnotify.Watcher, root string) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		logger.Debug("Path not found, not watching", logfields.Path(root))
		return
	}
	if err == nil && !info.IsDir() {
		if err := watcher.Add(root); err != nil {
			logger.Warn("Failed to watch file", logfields.Path(root), logfields.Error(err))
		}
		return
	}

	logger.Debug("Setting up watch", logfields.Path(root))
	err = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error walking path", logfields.Path(p), logfields.Error(err))
			return nil
		}
		if d.IsDir() {
			if watchErr := watcher.Add(p); watchErr != nil {
				logger.Warn("Failed to watch directory", logfields.Path(p), logfields.Error(watchErr))
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("Error during initial directory walk", logfields.Path(root), logfields.Error(err))
	}
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, onChange func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			// New subdirectories are not watched automatically.
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				addWatch(watcher, event.Name)
			}
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// relevant filters out chmod-only events and editor swap files.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return !strings.HasSuffix(name, "~") && !strings.HasSuffix(name, ".swp") && !strings.HasPrefix(name, ".#")
}

func isDir(p string) bool {
	fileInfo, err := os.Stat(p)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

// newServeHandler mounts the output directory at baseURL, the live reload
// hub under it, and /metrics when metricsHandler is set.
func newServeHandler(outputDir, baseURL string, reload http.Handler, metricsHandler http.Handler) http.Handler {
	base := "/" + strings.Trim(baseURL, "/")
	if base != "/" {
		base += "/"
	}

	mux := http.NewServeMux()
	mux.Handle(base, http.StripPrefix(strings.TrimSuffix(base, "/"), siteFiles(outputDir)))
	mux.Handle(base+livereload.Path, reload)
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}
	if base != "/" {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				http.Redirect(w, r, base, http.StatusFound)
				return
			}
			http.NotFound(w, r)
		})
	}
	return mux
}

// siteFiles serves outputDir without directory listings or caching. Missing
// pages get the site's 404.html when there is one.
func siteFiles(outputDir string) http.Handler {
	files := http.FileServer(http.Dir(outputDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set headers to prevent caching during development
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		full := filepath.Join(outputDir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		info, err := os.Stat(full)
		switch {
		case err != nil:
			notFound(w, r, outputDir)
			return
		case info.IsDir():
			if _, err := os.Stat(filepath.Join(full, "index.html")); err != nil {
				notFound(w, r, outputDir)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

func notFound(w http.ResponseWriter, r *http.Request, outputDir string) {
	page, err := os.ReadFile(filepath.Join(outputDir, "404.html"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(page)
}
