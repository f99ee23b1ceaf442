package content

import (
	"path"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
)

type sidebarEntry struct {
	node     *model.SidebarNode
	key      string // source path or directory name, breaks label ties
	position float64
	hasPos   bool
}

// BuildSidebar autogenerates a sidebar from the docs directory tree. Each
// directory becomes a category; entries are ordered by sidebar_position,
// then by label, then by source name. A category sorts by the smallest position inside it.
func BuildSidebar(id string, docs []*model.ContentItem) model.Sidebar {
	root := &dirNode{children: map[string]*dirNode{}}
	for _, d := range docs {
		dir := path.Dir(d.RelPath)
		n := root
		if dir != "." {
			for _, part := range strings.Split(dir, "/") {
				child, ok := n.children[part]
				if !ok {
					child = &dirNode{name: part, children: map[string]*dirNode{}}
					n.children[part] = child
				}
				n = child
			}
		}
		n.docs = append(n.docs, d)
	}
	return model.Sidebar{ID: id, Items: nodes(root.entries())}
}

type dirNode struct {
	name     string
	children map[string]*dirNode
	docs     []*model.ContentItem
}

func (d *dirNode) entries() []sidebarEntry {
	var out []sidebarEntry
	for _, doc := range d.docs {
		label := doc.SidebarLabel
		if label == "" {
			label = doc.Title
		}
		out = append(out, sidebarEntry{
			node:     &model.SidebarNode{Label: label, Permalink: doc.Permalink},
			key:      doc.RelPath,
			position: doc.SidebarPosition,
			hasPos:   doc.HasSidebarPosition,
		})
	}
	for _, child := range d.children {
		sub := child.entries()
		if len(sub) == 0 {
			continue
		}
		e := sidebarEntry{
			node: &model.SidebarNode{Label: categoryLabel(child.name), Children: nodes(sub)},
			key:  child.name,
		}
		for _, s := range sub {
			if s.hasPos && (!e.hasPos || s.position < e.position) {
				e.position, e.hasPos = s.position, true
			}
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.hasPos != b.hasPos {
			return a.hasPos
		}
		if a.hasPos && a.position != b.position {
			return a.position < b.position
		}
		if a.node.Label != b.node.Label {
			return a.node.Label < b.node.Label
		}
		return a.key < b.key
	})
	return out
}

func nodes(entries []sidebarEntry) []*model.SidebarNode {
	out := make([]*model.SidebarNode, len(entries))
	for i, e := range entries {
		out[i] = e.node
	}
	return out
}

func categoryLabel(dir string) string {
	if m := datedName.FindStringSubmatch(dir); m != nil {
		dir = m[4]
	}
	if trimmed := strings.TrimLeft(dir, "0123456789-_"); trimmed != "" {
		dir = trimmed
	}
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(dir))
}
