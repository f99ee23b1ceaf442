package blog

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
)

var (
	//go:embed xsl/rss.xsl
	RSSStylesheet []byte
	//go:embed xsl/atom.xsl
	AtomStylesheet []byte
)

// Feed file names, relative to the blog output directory.
const (
	RSSFile  = "rss.xml"
	AtomFile = "atom.xml"
)

// FeedLimit caps the number of posts in a feed.
const FeedLimit = 20

// FeedSite carries what the feeds need from the site record.
type FeedSite struct {
	Title     string
	Tagline   string
	SiteURL   string // absolute URL including base path, no trailing slash
	Language  string
	Copyright string
}

// NewFeedSite derives feed metadata from the site record.
func NewFeedSite(site config.Site) FeedSite {
	return FeedSite{
		Title:     site.Title + " Blog",
		Tagline:   site.Tagline,
		SiteURL:   strings.TrimSuffix(site.URL, "/") + strings.TrimSuffix(site.BaseURL, "/"),
		Language:  site.I18n.DefaultLocale,
		Copyright: site.ThemeConfig.Footer.Copyright,
	}
}

func (site FeedSite) abs(permalink string) string {
	return site.SiteURL + permalink
}

// feed collects the newest posts into a format-neutral feed.
func (b *Blog) feed(site FeedSite, now time.Time) *feeds.Feed {
	f := &feeds.Feed{
		Title:       site.Title,
		Link:        &feeds.Link{Href: site.abs("/blog/"), Rel: "alternate"},
		Description: site.Title,
		Updated:     now.UTC(),
		Copyright:   site.Copyright,
	}
	for _, post := range b.feedPosts() {
		f.Add(&feeds.Item{
			Title:       post.Title,
			Link:        &feeds.Link{Href: site.abs(post.Permalink)},
			Id:          site.abs(post.Permalink),
			IsPermaLink: "true",
			Description: string(post.SummaryHTML),
			Created:     post.Date.UTC(),
		})
	}
	return f
}

// RSS renders an RSS 2.0 feed of the newest posts.
func (b *Blog) RSS(site FeedSite, xslt bool, now time.Time) ([]byte, error) {
	channel := (&feeds.Rss{Feed: b.feed(site, now)}).RssFeed()
	channel.Language = site.Language
	for i, post := range b.feedPosts() {
		channel.Items[i].Category = strings.Join(post.Tags, ", ")
	}
	return writeFeed(channel, xslt, "rss.xsl")
}

// Atom renders an Atom feed of the newest posts.
func (b *Blog) Atom(site FeedSite, xslt bool, now time.Time) ([]byte, error) {
	feed := (&feeds.Atom{Feed: b.feed(site, now)}).AtomFeed()
	feed.Subtitle = site.Tagline
	for i, post := range b.feedPosts() {
		entry := feed.Entries[i]
		if post.Date.IsZero() {
			entry.Updated = now.UTC().Format(time.RFC3339)
		}
		entry.Author = b.atomAuthor(post.Authors)
	}
	return writeFeed(feed, xslt, "atom.xsl")
}

// atomAuthor folds a post's authors into the single author element an entry
// carries. The URI is kept only for a lone declared author.
func (b *Blog) atomAuthor(keys []string) *feeds.AtomAuthor {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	var uri string
	for i, key := range keys {
		names[i] = key
		if declared, ok := b.Authors[key]; ok {
			names[i] = declared.Name
			if len(keys) == 1 {
				uri = declared.URL
			}
		}
	}
	return &feeds.AtomAuthor{AtomPerson: feeds.AtomPerson{Name: strings.Join(names, ", "), Uri: uri}}
}

func (b *Blog) feedPosts() []*model.ContentItem {
	if len(b.Posts) > FeedLimit {
		return b.Posts[:FeedLimit]
	}
	return b.Posts
}

// writeFeed encodes feed and, when xslt is set, adds a stylesheet
// processing instruction after the XML declaration.
func writeFeed(feed feeds.XmlFeed, xslt bool, stylesheet string) ([]byte, error) {
	var encoded bytes.Buffer
	if err := feeds.WriteXML(feed, &encoded); err != nil {
		return nil, err
	}
	body := bytes.TrimPrefix(encoded.Bytes(), []byte(strings.TrimSuffix(xml.Header, "\n")))

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if xslt {
		buf.WriteString(`<?xml-stylesheet type="text/xsl" href="` + stylesheet + `"?>` + "\n")
	}
	buf.Write(bytes.TrimLeft(body, "\n"))
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
