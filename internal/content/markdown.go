package content

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
)

// TruncateMarker separates a blog post's summary from the rest.
const TruncateMarker = "<!-- truncate -->"

// Renderer converts item bodies to HTML. Markdown links to other .md files
// are rewritten to their permalinks; the ones that cannot be resolved are
// kept in BrokenLinks.
type Renderer struct {
	md    goldmark.Markdown
	links *linkRewriter
}

// NewRenderer builds the goldmark pipeline: GFM, automatic heading IDs, raw
// HTML passthrough, link rewriting and any extra extensions (e.g. diagrams).
func NewRenderer(index *Index, urlFor func(string) string, extenders ...goldmark.Extender) *Renderer {
	links := &linkRewriter{index: index, urlFor: urlFor}
	md := goldmark.New(
		goldmark.WithExtensions(append([]goldmark.Extender{extension.GFM}, extenders...)...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(links, 200)),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
	return &Renderer{md: md, links: links}
}

// Render fills ContentHTML, and SummaryHTML/Truncated for bodies containing
// the truncate marker.
func (r *Renderer) Render(item *model.ContentItem) error {
	html, err := r.convert(item, item.Body, true)
	if err != nil {
		return err
	}
	item.ContentHTML = html

	if i := bytes.Index(item.Body, []byte(TruncateMarker)); i >= 0 {
		summary, err := r.convert(item, item.Body[:i], false)
		if err != nil {
			return err
		}
		item.SummaryHTML = summary
		item.Truncated = true
	} else {
		item.SummaryHTML = html
	}
	return nil
}

// convert renders src; only full-body conversions record broken links so a
// summary does not report them twice.
func (r *Renderer) convert(item *model.ContentItem, src []byte, record bool) (template.HTML, error) {
	pc := parser.NewContext()
	pc.Set(sourcePathKey, item.SourcePath)
	pc.Set(recordKey, record)

	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf, parser.WithContext(pc)); err != nil {
		return "", serrors.Wrap(err, serrors.CategoryRender, fmt.Sprintf("failed to convert markdown to HTML for file '%s'", item.SourcePath))
	}
	return template.HTML(buf.String()), nil
}

// BrokenLinks returns the unresolved Markdown links seen so far.
func (r *Renderer) BrokenLinks() []BrokenLink {
	return r.links.brokenLinks()
}
