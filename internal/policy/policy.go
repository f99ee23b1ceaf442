// Package policy applies the site's onBrokenLinks-style policies to content
// findings: ignore, log, warn or throw.
package policy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
	"github.com/gunkustom/GunKustom-docs-internal/internal/logfields"
	"github.com/gunkustom/GunKustom-docs-internal/internal/metrics"
)

// Finding kinds.
const (
	BrokenLink         = "broken_link"
	BrokenMarkdownLink = "broken_markdown_link"
	InlineTag          = "inline_tag"
	InlineAuthor       = "inline_author"
	UntruncatedPost    = "untruncated_post"
)

// Reporter logs findings and collects the ones whose policy is throw.
type Reporter struct {
	logger   *slog.Logger
	recorder metrics.Recorder
	thrown   []string
}

func NewReporter(logger *slog.Logger, recorder metrics.Recorder) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Reporter{logger: logger, recorder: recorder}
}

// Report handles one finding under p. An empty policy means warn.
func (r *Reporter) Report(kind string, p config.Policy, msg string, attrs ...slog.Attr) {
	if p == "" {
		p = config.PolicyWarn
	}
	if p == config.PolicyIgnore {
		return
	}
	r.recorder.IncPolicyFinding(kind, string(p))

	attrs = append(attrs, slog.String("finding", kind), logfields.Policy(string(p)))
	switch p {
	case config.PolicyLog:
		r.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
	case config.PolicyWarn:
		r.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
	case config.PolicyThrow:
		r.logger.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
		r.thrown = append(r.thrown, fmt.Sprintf("%s: %s", kind, describe(msg, attrs)))
	}
}

// Err returns a build error listing every thrown finding, or nil.
func (r *Reporter) Err() error {
	if len(r.thrown) == 0 {
		return nil
	}
	return serrors.New(serrors.CategoryValidation, fmt.Sprintf("%d finding(s) fail the build: %s", len(r.thrown), strings.Join(r.thrown, "; "))).
		WithSeverity(serrors.SeverityFatal).
		WithContext("findings", append([]string(nil), r.thrown...))
}

func describe(msg string, attrs []slog.Attr) string {
	var b strings.Builder
	b.WriteString(msg)
	for _, a := range attrs {
		if a.Key == "finding" || a.Key == logfields.KeyPolicy {
			continue
		}
		fmt.Fprintf(&b, " %s=%s", a.Key, a.Value.String())
	}
	return b.String()
}
