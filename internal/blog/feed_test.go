package blog

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
)

func feedBlog() *Blog {
	return &Blog{
		Posts: []*model.ContentItem{{
			Title:       "Hello <World>",
			Permalink:   "/blog/2024/06/01/hello/",
			Date:        day(2024, 6, 1),
			SummaryHTML: "<p>Summary</p>",
			Tags:        []string{"Release"},
			Authors:     []string{"gk", "guest"},
		}},
		Authors: map[string]*model.Author{"gk": {Key: "gk", Name: "GunKustom", URL: "https://github.com/gunkustom"}},
	}
}

func TestNewFeedSite(t *testing.T) {
	fs := NewFeedSite(config.Default())
	assert.Equal(t, "https://gunkustom.github.io/GunKustom-docs-internal", fs.SiteURL)
	assert.Equal(t, "GunKustom Blog", fs.Title)
	assert.Equal(t, "en", fs.Language)
}

func TestRSS(t *testing.T) {
	now := day(2024, 7, 1)
	out, err := feedBlog().RSS(NewFeedSite(config.Default()), true, now)
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, xml.Header))
	assert.Contains(t, s, `<?xml-stylesheet type="text/xsl" href="rss.xsl"?>`)
	assert.Contains(t, s, `<rss version="2.0"`)
	assert.Contains(t, s, "<language>en</language>")
	assert.Contains(t, s, "<title>Hello &lt;World&gt;</title>")
	assert.Contains(t, s, "<link>https://gunkustom.github.io/GunKustom-docs-internal/blog/2024/06/01/hello/</link>")
	assert.Contains(t, s, "<category>Release</category>")
	assert.Contains(t, s, "&lt;p&gt;Summary&lt;/p&gt;")

	var parsed struct {
		Channel struct {
			LastBuildDate string `xml:"lastBuildDate"`
			Items         []struct {
				GUID    string `xml:"guid"`
				PubDate string `xml:"pubDate"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	require.NoError(t, xml.Unmarshal(out, &parsed))
	require.Len(t, parsed.Channel.Items, 1)
	assert.Equal(t, now.Format(time.RFC1123Z), parsed.Channel.LastBuildDate)
	assert.Equal(t, "https://gunkustom.github.io/GunKustom-docs-internal/blog/2024/06/01/hello/", parsed.Channel.Items[0].GUID)
	assert.Equal(t, day(2024, 6, 1).Format(time.RFC1123Z), parsed.Channel.Items[0].PubDate)
}

func TestAtom(t *testing.T) {
	out, err := feedBlog().Atom(NewFeedSite(config.Default()), false, day(2024, 7, 1))
	require.NoError(t, err)
	s := string(out)

	assert.NotContains(t, s, "xml-stylesheet")
	assert.Contains(t, s, `<feed xmlns="http://www.w3.org/2005/Atom">`)
	assert.Contains(t, s, "<updated>2024-06-01T00:00:00Z</updated>")
	assert.Contains(t, s, "<name>GunKustom, guest</name>")
	assert.Contains(t, s, "<summary type=\"html\">&lt;p&gt;Summary&lt;/p&gt;</summary>")

	var parsed struct {
		Entries []struct {
			ID string `xml:"id"`
		} `xml:"entry"`
	}
	require.NoError(t, xml.Unmarshal(out, &parsed))
	require.Len(t, parsed.Entries, 1)
	assert.Equal(t, "https://gunkustom.github.io/GunKustom-docs-internal/blog/2024/06/01/hello/", parsed.Entries[0].ID)
}

func TestAtom_SingleAuthorKeepsURI(t *testing.T) {
	b := feedBlog()
	b.Posts[0].Authors = []string{"gk"}
	b.Posts[0].Date = time.Time{}
	out, err := b.Atom(NewFeedSite(config.Default()), true, day(2024, 7, 1))
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, xml.Header+`<?xml-stylesheet type="text/xsl" href="atom.xsl"?>`+"\n<feed"))
	assert.Contains(t, s, "<name>GunKustom</name>")
	assert.Contains(t, s, "<uri>https://github.com/gunkustom</uri>")
	assert.Contains(t, s, "<updated>2024-07-01T00:00:00Z</updated>")
}

func TestFeedLimit(t *testing.T) {
	b := &Blog{}
	for i := 0; i < FeedLimit+5; i++ {
		b.Posts = append(b.Posts, &model.ContentItem{Title: "p", Permalink: "/blog/p/"})
	}
	out, err := b.RSS(NewFeedSite(config.Default()), false, day(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, FeedLimit, strings.Count(string(out), "<item>"))
}

func TestStylesheetsEmbedded(t *testing.T) {
	assert.Contains(t, string(RSSStylesheet), "xsl:stylesheet")
	assert.Contains(t, string(AtomStylesheet), "xsl:stylesheet")
}
