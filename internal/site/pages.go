package site

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/gunkustom/GunKustom-docs-internal/internal/blog"
	"github.com/gunkustom/GunKustom-docs-internal/internal/components"
	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
	"github.com/gunkustom/GunKustom-docs-internal/internal/livereload"
	"github.com/gunkustom/GunKustom-docs-internal/internal/logfields"
	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
)

// DateFormat is how post dates are shown.
const DateFormat = "January 2, 2006"

type feedLink struct {
	Name string
	Type string
	Href string
}

// funcs returns the template helpers. They read build state lazily, so
// they are safe to bind before content is rendered.
func (st *build) funcs() template.FuncMap {
	return template.FuncMap{
		"url": func(target string) string { return st.url(target) },
		"absURL": func(target string) string {
			return strings.TrimSuffix(st.Site.URL, "/") + st.url(target)
		},
		"date": func(t time.Time) string { return t.Format(DateFormat) },
		"liveReload": func() template.HTML {
			return template.HTML(livereload.Script(st.url("/" + livereload.Path)))
		},
		"feeds":   st.feedLinks,
		"authors": st.postAuthors,
		"tags":    st.postTags,
	}
}

func (st *build) feedLinks() []feedLink {
	if st.site == nil || len(st.site.Posts) == 0 {
		return nil
	}
	var links []feedLink
	for _, kind := range st.Site.Blog.Feed.Types {
		switch kind {
		case "rss":
			links = append(links, feedLink{Name: "RSS", Type: "application/rss+xml", Href: st.url("/" + config.BlogDir + "/" + blog.RSSFile)})
		case "atom":
			links = append(links, feedLink{Name: "Atom", Type: "application/atom+xml", Href: st.url("/" + config.BlogDir + "/" + blog.AtomFile)})
		}
	}
	return links
}

// postAuthors resolves author keys; undeclared authors are shown by key.
func (st *build) postAuthors(item *model.ContentItem) []*model.Author {
	authors := make([]*model.Author, 0, len(item.Authors))
	for _, key := range item.Authors {
		if a, ok := st.site.Authors[key]; ok {
			authors = append(authors, a)
			continue
		}
		authors = append(authors, &model.Author{Key: key, Name: key})
	}
	return authors
}

func (st *build) postTags(item *model.ContentItem) []*model.Tag {
	var tags []*model.Tag
	seen := map[string]bool{}
	for _, label := range item.Tags {
		key := blog.TagKey(label)
		if seen[key] {
			continue
		}
		seen[key] = true
		if t, ok := st.site.Tags[key]; ok {
			tags = append(tags, t)
		}
	}
	return tags
}

func (st *build) writePages(layouts map[string]*template.Template) error {
	navbar, err := components.HTML(components.Navbar(st.Site.ThemeConfig.Navbar,
		map[string]string{st.site.Sidebar.ID: st.site.Sidebar.First()}, st.url))
	if err != nil {
		return serrors.Wrap(err, serrors.CategoryRender, "failed to render navbar")
	}
	footer, err := components.HTML(components.Footer(st.Site.ThemeConfig.Footer, st.url))
	if err != nil {
		return serrors.Wrap(err, serrors.CategoryRender, "failed to render footer")
	}

	newPage := func(title string) *model.PageData {
		return &model.PageData{
			Site:        st.site,
			PageTitle:   title,
			Lang:        st.Site.I18n.DefaultLocale,
			Stylesheets: st.styles,
			Navbar:      navbar,
			Footer:      footer,
			LiveReload:  st.LiveReload,
		}
	}
	write := func(layout, permalink string, kind model.Kind, data *model.PageData) error {
		return st.writePage(layouts[layout], layout, outputPath(permalink), kind, data)
	}

	home := newPage(st.Site.Title)
	features, err := components.HTML(components.Features(components.HomepageFeatures))
	if err != nil {
		return serrors.Wrap(err, serrors.CategoryRender, "failed to render features")
	}
	home.Body = features
	if err := write(layoutHome, "/", "home", home); err != nil {
		return err
	}

	for _, doc := range st.site.Docs {
		page := newPage(st.itemTitle(doc))
		page.Item = doc
		page.Body = doc.ContentHTML
		sidebar, err := components.HTML(components.Sidebar(st.site.Sidebar, doc.Permalink, st.url))
		if err != nil {
			return serrors.Wrap(err, serrors.CategoryRender, "failed to render sidebar")
		}
		page.Sidebar = sidebar
		if err := write(st.layoutFor(doc, layouts, layoutDoc), doc.Permalink, model.KindDoc, page); err != nil {
			return err
		}
	}

	list := newPage("Blog | " + st.Site.Title)
	list.Posts = st.site.Posts
	if err := write(layoutBlogList, "/blog/", "list", list); err != nil {
		return err
	}
	for _, post := range st.site.Posts {
		page := newPage(st.itemTitle(post))
		page.Item = post
		page.Body = post.ContentHTML
		if err := write(st.layoutFor(post, layouts, layoutPost), post.Permalink, model.KindPost, page); err != nil {
			return err
		}
	}

	if keys := st.blog.TagKeys(); len(keys) > 0 {
		tags := newPage("Tags | " + st.Site.Title)
		for _, key := range keys {
			tags.TagList = append(tags.TagList, model.TagCount{Tag: st.site.Tags[key], Count: len(st.site.PostsByTag[key])})
		}
		if err := write(layoutTags, "/blog/tags/", "tags", tags); err != nil {
			return err
		}
		for _, key := range keys {
			tag := st.site.Tags[key]
			page := newPage(fmt.Sprintf("%d post(s) tagged with %q | %s", len(st.site.PostsByTag[key]), tag.Label, st.Site.Title))
			page.Tag = tag
			page.Posts = st.site.PostsByTag[key]
			if err := write(layoutBlogList, tag.Permalink, "tag", page); err != nil {
				return err
			}
		}
	}

	notFound := newPage("Page Not Found | " + st.Site.Title)
	return st.writePage(layouts[layout404], layout404, "404.html", "404", notFound)
}

func (st *build) writePage(t *template.Template, layout, rel string, kind model.Kind, data *model.PageData) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layoutBase, data); err != nil {
		return serrors.Wrap(err, serrors.CategoryRender, fmt.Sprintf("failed to execute template '%s' for '%s'", layout, rel))
	}
	if err := writeFile(st.OutputDir, rel, buf.Bytes()); err != nil {
		return serrors.Wrap(err, serrors.CategoryFileSystem, "failed to write page")
	}
	st.result.Pages++
	st.recorder.IncPagesWritten(string(kind))
	st.logger.Debug("Generated page", logfields.Path(rel), slog.String("layout", layout))
	return nil
}

// layoutFor honors a frontmatter layout when it names a known page layout.
func (st *build) layoutFor(item *model.ContentItem, layouts map[string]*template.Template, fallback string) string {
	if item.Layout == "" {
		return fallback
	}
	name := item.Layout
	if !strings.HasSuffix(name, ".html") {
		name += ".html"
	}
	if _, ok := layouts[name]; ok && name != layout404 {
		return name
	}
	st.logger.Warn("Frontmatter layout not found, using default",
		logfields.Path(item.SourcePath), slog.String("layout", item.Layout), slog.String("default", fallback))
	return fallback
}

func (st *build) itemTitle(item *model.ContentItem) string {
	if item.Title == "" {
		return st.Site.Title
	}
	return item.Title + " | " + st.Site.Title
}
