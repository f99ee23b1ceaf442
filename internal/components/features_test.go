package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const blockClass = `class="col col--12 feature"`

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, n.Render(&b))
	return b.String()
}

func TestFeatures_Empty(t *testing.T) {
	out := render(t, Features(nil))
	assert.Equal(t,
		`<section class="features"><div class="container"><div class="row justify-center align-center"></div></div></section>`,
		out)
}

func TestFeatures_IconOnly(t *testing.T) {
	out := render(t, Features([]FeatureItem{{Title: "", Icon: &Icon{Src: "img/gunkustom.svg", Alt: "GunKustom"}}}))

	assert.Equal(t, 1, strings.Count(out, blockClass))
	assert.Contains(t, out, `<img class="featureSvg" role="img" src="img/gunkustom.svg" alt="GunKustom">`)
	assert.NotContains(t, out, "<h3")
	assert.NotContains(t, out, "<p")
}

func TestFeatures_Parts(t *testing.T) {
	tests := []struct {
		name        string
		item        FeatureItem
		wantHeading bool
		wantPara    bool
		wantImg     bool
	}{
		{"title only", FeatureItem{Title: "Fast"}, true, false, false},
		{"description only", FeatureItem{Description: g.Text("Docs for everyone")}, false, true, false},
		{"empty but present description", FeatureItem{Description: g.Text("")}, false, true, false},
		{"everything", FeatureItem{Title: "Fast", Icon: &Icon{Src: "a.svg"}, Description: h.Em(g.Text("yes"))}, true, true, true},
		{"nothing", FeatureItem{}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, Features([]FeatureItem{tt.item}))
			assert.Equal(t, tt.wantHeading, strings.Contains(out, "<h3>"), out)
			assert.Equal(t, tt.wantPara, strings.Contains(out, "<p>"), out)
			assert.Equal(t, tt.wantImg, strings.Contains(out, "<img"), out)
		})
	}
}

func TestFeatures_PreservesOrder(t *testing.T) {
	out := render(t, Features([]FeatureItem{{Title: "Zeta"}, {Title: "Alpha"}, {Title: "Mu"}}))

	z := strings.Index(out, "Zeta")
	a := strings.Index(out, "Alpha")
	m := strings.Index(out, "Mu")
	assert.True(t, z < a && a < m, out)
	assert.Equal(t, 3, strings.Count(out, blockClass))
}

func TestFeatures_EscapesTitle(t *testing.T) {
	out := render(t, Features([]FeatureItem{{Title: "<b>x</b>"}}))
	assert.Contains(t, out, "<h3>&lt;b&gt;x&lt;/b&gt;</h3>")
}

func TestHomepageFeatures(t *testing.T) {
	require.Len(t, HomepageFeatures, 1)
	assert.Empty(t, HomepageFeatures[0].Title)
	assert.NotNil(t, HomepageFeatures[0].Icon)
	assert.Nil(t, HomepageFeatures[0].Description)
}

func TestHTML(t *testing.T) {
	out, err := HTML(h.P(g.Text("a & b")))
	require.NoError(t, err)
	assert.Equal(t, "<p>a &amp; b</p>", string(out))

	out, err = HTML(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
