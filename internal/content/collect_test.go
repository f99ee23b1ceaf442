package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
}

func byPath(items []*model.ContentItem) map[string]*model.ContentItem {
	m := make(map[string]*model.ContentItem, len(items))
	for _, it := range items {
		m[it.SourcePath] = it
	}
	return m
}

func TestCollect_Docs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/intro.md", "---\ntitle: Welcome\nsidebar_position: 1\n---\n# Ignored heading\n\nHello world.\n")
	writeFile(t, root, "docs/guides/setup-local_env.md", "No heading here.\n")
	writeFile(t, root, "docs/guides/index.md", "# Guides\n")
	writeFile(t, root, "docs/guides/renamed.md", "---\nslug: install\n---\nbody\n")
	writeFile(t, root, "docs/abs.md", "---\nslug: /elsewhere/page\n---\nbody\n")
	writeFile(t, root, "docs/_partial.md", "partial\n")
	writeFile(t, root, "docs/_drafts/wip.md", "wip\n")
	writeFile(t, root, "docs/draft.md", "---\ndraft: true\n---\nnot yet\n")
	writeFile(t, root, "docs/image.png", "png")

	c := &Collector{Root: root, EditURL: "https://github.com/gunkustom/GunKustom-docs-internal/tree/main/"}
	items, err := c.Collect("docs", model.KindDoc)
	require.NoError(t, err)

	got := byPath(items)
	require.Len(t, got, 5)
	assert.NotContains(t, got, "docs/_partial.md")
	assert.NotContains(t, got, "docs/draft.md")

	intro := got["docs/intro.md"]
	assert.Equal(t, "Welcome", intro.Title)
	assert.Equal(t, "/docs/intro/", intro.Permalink)
	assert.True(t, intro.HasSidebarPosition)
	assert.InDelta(t, 1, intro.SidebarPosition, 0)
	assert.Equal(t, "https://github.com/gunkustom/GunKustom-docs-internal/tree/main/docs/intro.md", intro.EditURL)
	assert.Equal(t, model.KindDoc, intro.Kind)

	assert.Equal(t, "Setup Local Env", got["docs/guides/setup-local_env.md"].Title)
	assert.Equal(t, "/docs/guides/setup-local_env/", got["docs/guides/setup-local_env.md"].Permalink)
	assert.Equal(t, "Guides", got["docs/guides/index.md"].Title)
	assert.Equal(t, "/docs/guides/", got["docs/guides/index.md"].Permalink)
	assert.Equal(t, "/docs/guides/install/", got["docs/guides/renamed.md"].Permalink)
	assert.Equal(t, "/docs/elsewhere/page/", got["docs/abs.md"].Permalink)
}

func TestCollect_DraftsIncluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/draft.md", "---\ndraft: true\n---\nnot yet\n")

	items, err := (&Collector{Root: root, Drafts: true}).Collect("docs", model.KindDoc)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Draft)
}

func TestCollect_MissingSection(t *testing.T) {
	items, err := (&Collector{Root: t.TempDir()}).Collect("blog", model.KindPost)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCollect_Posts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "blog/2024-03-05-hello-world.md", "---\ntags: [release, docs]\nauthors: gk\n---\nHi.\n")
	writeFile(t, root, "blog/2024-04-01-bundle/index.md", "---\ntitle: Bundled\n---\nbody\n")
	writeFile(t, root, "blog/custom.md", "---\nslug: my-post\ndate: 2023-12-24\n---\nbody\n")
	writeFile(t, root, "blog/undated.md", "body\n")

	items, err := (&Collector{Root: root}).Collect("blog", model.KindPost)
	require.NoError(t, err)
	got := byPath(items)
	require.Len(t, got, 4)

	hello := got["blog/2024-03-05-hello-world.md"]
	assert.Equal(t, "Hello World", hello.Title)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), hello.Date)
	assert.Equal(t, "/blog/2024/03/05/hello-world/", hello.Permalink)
	assert.Equal(t, []string{"release", "docs"}, hello.Tags)
	assert.Equal(t, []string{"gk"}, hello.Authors)

	assert.Equal(t, "/blog/2024/04/01/bundle/", got["blog/2024-04-01-bundle/index.md"].Permalink)
	assert.Equal(t, "Bundled", got["blog/2024-04-01-bundle/index.md"].Title)

	custom := got["blog/custom.md"]
	assert.Equal(t, "/blog/my-post/", custom.Permalink)
	assert.Equal(t, 2023, custom.Date.Year())

	assert.Equal(t, "/blog/undated/", got["blog/undated.md"].Permalink)
}

func TestParseDate(t *testing.T) {
	for _, in := range []interface{}{"2024-01-02", "2024-01-02T10:00:00Z", "2024-01-02 10:00:00", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)} {
		d, ok := parseDate(in)
		require.True(t, ok, "%v", in)
		assert.Equal(t, 2, d.Day())
	}
	_, ok := parseDate("yesterday")
	assert.False(t, ok)
}
