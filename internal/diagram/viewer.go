// Package diagram implements the diagram viewer: a component that fetches a
// text resource by locator, keeps it as private view state and renders it
// verbatim once loaded.
//
// Only the most recent fetch of a viewer may update its content. Each fetch is
// tagged with a sequence number and results from superseded fetches are
// dropped. Failures are logged and counted but never rendered; the viewer keeps
// showing the loading placeholder.
package diagram

import (
	"context"
	"log/slog"
	"sync"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/gunkustom/GunKustom-docs-internal/internal/logfields"
	"github.com/gunkustom/GunKustom-docs-internal/internal/metrics"
)

// LoadingMessage is rendered while the content is empty.
const LoadingMessage = "Loading diagram..."

// Fetcher retrieves the text of the resource at locator.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, locator string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, locator string) (string, error) {
	return f(ctx, locator)
}

// State of a viewer's content.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Viewer is one diagram viewer instance.
type Viewer struct {
	fetcher  Fetcher
	logger   *slog.Logger
	recorder metrics.Recorder

	mu       sync.Mutex
	locator  string
	content  string
	seq      uint64
	inflight bool
	cancel   context.CancelFunc
	lastErr  error

	// pending counts fetch goroutines that have not returned; idle is
	// closed when it drops to zero.
	pending int
	idle    chan struct{}
}

// Option configures a Viewer.
type Option func(*Viewer)

func WithLogger(l *slog.Logger) Option {
	return func(v *Viewer) { v.logger = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(v *Viewer) { v.recorder = r }
}

// NewViewer returns an unmounted viewer in StateEmpty.
func NewViewer(f Fetcher, opts ...Option) *Viewer {
	v := &Viewer{
		fetcher:  f,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mount starts loading locator. It returns immediately; the fetch completes
// in the background. Mounting a new locator supersedes any fetch in flight.
// Mounting the locator that is already loaded or loading does nothing.
func (v *Viewer) Mount(ctx context.Context, locator string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.seq > 0 && locator == v.locator && (v.inflight || v.content != "") {
		return
	}
	if v.cancel != nil {
		v.cancel()
	}

	v.seq++
	seq := v.seq
	fctx, cancel := context.WithCancel(ctx)
	v.locator = locator
	v.content = ""
	v.lastErr = nil
	v.inflight = true
	v.cancel = cancel

	if v.pending == 0 {
		v.idle = make(chan struct{})
	}
	v.pending++
	go v.load(fctx, seq, locator)
}

func (v *Viewer) load(ctx context.Context, seq uint64, locator string) {
	text, err := v.fetcher.Fetch(ctx, locator)

	v.mu.Lock()
	defer v.mu.Unlock()
	defer v.fetchReturned()

	if seq != v.seq {
		v.logger.Debug("Discarding superseded diagram fetch", logfields.Locator(locator))
		v.recorder.IncDiagramFetch(metrics.OutcomeStale)
		return
	}
	v.inflight = false
	v.cancel()
	v.cancel = nil

	if err != nil {
		v.lastErr = err
		v.logger.Error("Error loading diagram", logfields.Locator(locator), logfields.Error(err))
		v.recorder.IncDiagramFetch(metrics.OutcomeFailed)
		return
	}
	v.content = text
	v.recorder.IncDiagramFetch(metrics.OutcomeSuccess)
}

// fetchReturned must be called with mu held.
func (v *Viewer) fetchReturned() {
	v.pending--
	if v.pending == 0 {
		close(v.idle)
	}
}

// Unmount cancels any fetch in flight and drops the view state.
func (v *Viewer) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.seq++
	v.locator = ""
	v.content = ""
	v.inflight = false
	v.lastErr = nil
}

// Wait blocks until every fetch started by this viewer has returned, or ctx
// ends. It may be called concurrently with Mount.
func (v *Viewer) Wait(ctx context.Context) error {
	v.mu.Lock()
	if v.pending == 0 {
		v.mu.Unlock()
		return nil
	}
	idle := v.idle
	v.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Content returns the loaded text, or "" when nothing is loaded.
func (v *Viewer) Content() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.content
}

// Locator returns the locator of the latest mount.
func (v *Viewer) Locator() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.locator
}

// State reports the content state. A failed fetch leaves the viewer in
// StateLoading; Err tells the two apart for diagnostics.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.content != "":
		return StateLoaded
	case v.locator == "" && !v.inflight:
		return StateEmpty
	default:
		return StateLoading
	}
}

// Err returns the failure of the latest fetch, if any.
func (v *Viewer) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// Render returns the placeholder while empty, otherwise the text as
// preformatted content. The text is escaped, never interpreted.
func (v *Viewer) Render() g.Node {
	content := v.Content()
	if content == "" {
		return h.Div(h.Class("drawio"), h.P(g.Text(LoadingMessage)))
	}
	return h.Div(h.Class("drawio"), h.Pre(g.Text(content)))
}
