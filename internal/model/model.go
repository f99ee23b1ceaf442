package model

import (
	"html/template"
	"time"

	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
)

// Kind of a content item, derived from the directory it was collected from.
type Kind string

const (
	KindDoc  Kind = "doc"
	KindPost Kind = "post"
)

// ContentItem represents a single doc page or blog post.
type ContentItem struct {
	Title       string
	Description string
	Date        time.Time
	Kind        Kind
	SourcePath  string // slash-separated, relative to the site root, e.g. docs/intro.md
	RelPath     string // slash-separated, relative to the section directory
	Permalink   string // site relative, without the base URL, always /-terminated
	Slug        string
	Body        []byte // markdown without frontmatter
	ContentHTML template.HTML
	SummaryHTML template.HTML
	Truncated   bool
	Frontmatter map[string]interface{}
	Tags        []string
	Authors     []string
	Layout      string
	Draft       bool

	SidebarPosition    float64
	HasSidebarPosition bool
	SidebarLabel       string

	EditURL     string
	WordCount   int
	ReadingTime int // minutes, 0 when not shown
}

// SidebarNode is a doc link or a category of nodes.
type SidebarNode struct {
	Label     string
	Permalink string // empty for categories
	Children  []*SidebarNode
}

// IsCategory reports whether the node groups other nodes.
func (n *SidebarNode) IsCategory() bool {
	return n.Permalink == "" && len(n.Children) > 0
}

// Sidebar is an ordered doc navigation tree.
type Sidebar struct {
	ID    string
	Items []*SidebarNode
}

// First returns the permalink of the first doc in the sidebar, depth first.
func (s Sidebar) First() string {
	var walk func([]*SidebarNode) string
	walk = func(nodes []*SidebarNode) string {
		for _, n := range nodes {
			if n.Permalink != "" {
				return n.Permalink
			}
			if p := walk(n.Children); p != "" {
				return p
			}
		}
		return ""
	}
	return walk(s.Items)
}

// Author is a declared blog author.
type Author struct {
	Key      string
	Name     string `yaml:"name"`
	Title    string `yaml:"title"`
	URL      string `yaml:"url"`
	ImageURL string `yaml:"image_url"`
}

// Tag is a blog tag, declared or inline.
type Tag struct {
	Key         string
	Label       string `yaml:"label"`
	Permalink   string `yaml:"permalink"`
	Description string `yaml:"description"`
}

// SiteData holds all site-wide data passed to layouts.
type SiteData struct {
	Config       config.Site
	Docs         []*ContentItem
	Posts        []*ContentItem
	Sidebar      Sidebar
	Authors      map[string]*Author
	Tags         map[string]*Tag
	PostsByTag   map[string][]*ContentItem
	ContentByURL map[string]*ContentItem
}

// TagCount pairs a tag with its number of posts.
type TagCount struct {
	Tag   *Tag
	Count int
}

// PageData is the template context for a single rendered page.
type PageData struct {
	Site        *SiteData
	Item        *ContentItem
	Tag         *Tag
	Posts       []*ContentItem
	TagList     []TagCount
	PageTitle   string
	Lang        string
	Stylesheets []string
	Navbar      template.HTML
	Footer      template.HTML
	Sidebar     template.HTML
	Body        template.HTML
	LiveReload  bool
}
