package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
)

func doc(rel, title string, pos float64, hasPos bool) *model.ContentItem {
	return &model.ContentItem{
		RelPath:            rel,
		Title:              title,
		Permalink:          "/docs/" + rel + "/",
		SidebarPosition:    pos,
		HasSidebarPosition: hasPos,
	}
}

func TestBuildSidebar(t *testing.T) {
	docs := []*model.ContentItem{
		doc("zeta.md", "Zeta", 0, false),
		doc("alpha.md", "Alpha", 0, false),
		doc("intro.md", "Intro", 1, true),
		doc("tutorial-basics/create-a-page.md", "Create a Page", 1, true),
		doc("tutorial-basics/congrats.md", "Congrats", 6, true),
		doc("tutorial-extras/manage-versions.md", "Manage Versions", 0, false),
	}
	docs[1].SidebarLabel = "Alpha!"

	sb := BuildSidebar("tutorialSidebar", docs)
	assert.Equal(t, "tutorialSidebar", sb.ID)
	require.Len(t, sb.Items, 5)

	labels := make([]string, len(sb.Items))
	for i, n := range sb.Items {
		labels[i] = n.Label
	}
	assert.Equal(t, []string{"Intro", "Tutorial Basics", "Alpha!", "Tutorial Extras", "Zeta"}, labels)

	basics := sb.Items[1]
	assert.True(t, basics.IsCategory())
	require.Len(t, basics.Children, 2)
	assert.Equal(t, "Create a Page", basics.Children[0].Label)
	assert.Equal(t, "Congrats", basics.Children[1].Label)

	assert.Equal(t, "/docs/intro.md/", sb.First())
}

func TestBuildSidebar_SameCategoryLabel(t *testing.T) {
	docs := []*model.ContentItem{
		doc("guides/b.md", "B", 0, false),
		doc("01-guides/a.md", "A", 0, false),
	}

	// Map iteration order varies between runs, so repeat.
	for range 20 {
		sb := BuildSidebar("tutorialSidebar", docs)
		require.Len(t, sb.Items, 2)
		assert.Equal(t, "Guides", sb.Items[0].Label)
		assert.Equal(t, "Guides", sb.Items[1].Label)
		assert.Equal(t, "A", sb.Items[0].Children[0].Label)
		assert.Equal(t, "B", sb.Items[1].Children[0].Label)
	}
}

func TestBuildSidebar_Empty(t *testing.T) {
	sb := BuildSidebar("tutorialSidebar", nil)
	assert.Empty(t, sb.Items)
	assert.Empty(t, sb.First())
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Getting Started", categoryLabel("01-getting-started"))
	assert.Equal(t, "Guides", categoryLabel("guides"))
	assert.Equal(t, "2024", categoryLabel("2024"))
}
