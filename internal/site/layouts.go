package site

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
)

//go:embed layouts
var defaultLayouts embed.FS

// Page layouts; each defines the "content" block of base.html.
const (
	layoutBase     = "base.html"
	layoutHome     = "home.html"
	layoutDoc      = "doc.html"
	layoutBlogList = "blog-list.html"
	layoutPost     = "post.html"
	layoutTags     = "tags.html"
	layout404      = "404.html"
)

var pageLayouts = []string{layoutHome, layoutDoc, layoutBlogList, layoutPost, layoutTags, layout404}

// layoutFS serves a layout from the site's layouts directory when it exists
// there and falls back to the built-in one.
type layoutFS struct {
	override fs.FS
	builtin  fs.FS
}

func newLayoutFS(dir string) layoutFS {
	builtin, _ := fs.Sub(defaultLayouts, "layouts")
	l := layoutFS{builtin: builtin}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		l.override = os.DirFS(dir)
	}
	return l
}

func (l layoutFS) read(name string) ([]byte, error) {
	if l.override != nil {
		data, err := fs.ReadFile(l.override, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return fs.ReadFile(l.builtin, name)
}

func (l layoutFS) partials() ([]string, error) {
	seen := map[string]bool{}
	var names []string
	for _, fsys := range []fs.FS{l.override, l.builtin} {
		if fsys == nil {
			continue
		}
		matches, err := fs.Glob(fsys, "partials/*.html")
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				names = append(names, m)
			}
		}
	}
	return names, nil
}

// parseLayouts parses base.html and every partial once, then clones that set
// per page layout so each page can define its own "content" block.
func parseLayouts(dir string, funcs template.FuncMap) (map[string]*template.Template, error) {
	l := newLayoutFS(dir)

	base := template.New(layoutBase).Funcs(funcs)
	src, err := l.read(layoutBase)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryFileSystem, "base.html not found")
	}
	if _, err := base.Parse(string(src)); err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryRender, "failed to parse base.html")
	}

	partials, err := l.partials()
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryFileSystem, "failed to list partials")
	}
	for _, name := range partials {
		src, err := l.read(name)
		if err != nil {
			return nil, serrors.Wrap(err, serrors.CategoryFileSystem, "failed to read partial "+name)
		}
		if _, err := base.New(path.Base(name)).Parse(string(src)); err != nil {
			return nil, serrors.Wrap(err, serrors.CategoryRender, "failed to parse partial "+name)
		}
	}

	layouts := make(map[string]*template.Template, len(pageLayouts))
	for _, name := range pageLayouts {
		src, err := l.read(name)
		if err != nil {
			return nil, serrors.Wrap(err, serrors.CategoryFileSystem, fmt.Sprintf("layout %s not found", name))
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.New(name).Parse(string(src)); err != nil {
			return nil, serrors.Wrap(err, serrors.CategoryRender, "failed to parse layout "+name)
		}
		layouts[name] = t
	}
	return layouts, nil
}

// outputPath maps a permalink to the index.html that serves it.
func outputPath(permalink string) string {
	rel := strings.Trim(permalink, "/")
	if rel == "" {
		return "index.html"
	}
	return filepath.ToSlash(path.Join(rel, "index.html"))
}
