package content

import (
	"path"
	"strings"
	"sync"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
)

var (
	sourcePathKey = parser.NewContextKey()
	recordKey     = parser.NewContextKey()
)

// Index maps source paths (docs/intro.md) to collected items.
type Index struct {
	bySource map[string]*model.ContentItem
}

// NewIndex indexes the given item lists.
func NewIndex(lists ...[]*model.ContentItem) *Index {
	idx := &Index{bySource: make(map[string]*model.ContentItem)}
	for _, items := range lists {
		for _, it := range items {
			idx.bySource[it.SourcePath] = it
		}
	}
	return idx
}

// Lookup returns the item collected from sourcePath.
func (i *Index) Lookup(sourcePath string) (*model.ContentItem, bool) {
	if i == nil {
		return nil, false
	}
	it, ok := i.bySource[sourcePath]
	return it, ok
}

// BrokenLink is a Markdown link to a .md file that no collected item matches.
type BrokenLink struct {
	Source string
	Target string
}

type linkRewriter struct {
	index  *Index
	urlFor func(string) string

	mu     sync.Mutex
	broken []BrokenLink
}

func (l *linkRewriter) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	source, _ := pc.Get(sourcePathKey).(string)
	record, _ := pc.Get(recordKey).(bool)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			node.Destination = []byte(l.rewrite(source, string(node.Destination), record))
		case *ast.Image:
			node.Destination = []byte(l.siteURL(string(node.Destination)))
		}
		return ast.WalkContinue, nil
	})
}

func (l *linkRewriter) rewrite(source, dest string, record bool) string {
	if isExternal(dest) || strings.HasPrefix(dest, "#") || dest == "" {
		return dest
	}
	target, fragment, _ := strings.Cut(dest, "#")
	if fragment != "" {
		fragment = "#" + fragment
	}
	if !strings.HasSuffix(strings.ToLower(target), ".md") {
		return l.siteURL(dest)
	}

	var resolved string
	if strings.HasPrefix(target, "/") {
		resolved = strings.TrimPrefix(path.Clean(target), "/")
	} else {
		resolved = path.Join(path.Dir(source), target)
	}
	if item, ok := l.index.Lookup(resolved); ok {
		return l.siteURL(item.Permalink) + fragment
	}

	if record {
		l.mu.Lock()
		l.broken = append(l.broken, BrokenLink{Source: source, Target: dest})
		l.mu.Unlock()
	}
	return dest
}

func (l *linkRewriter) siteURL(dest string) string {
	if l.urlFor == nil || !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
		return dest
	}
	return l.urlFor(dest)
}

func (l *linkRewriter) brokenLinks() []BrokenLink {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]BrokenLink(nil), l.broken...)
}

func isExternal(dest string) bool {
	return strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") || strings.HasPrefix(dest, "//")
}
