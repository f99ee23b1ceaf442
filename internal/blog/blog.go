// Package blog prepares collected posts for rendering: ordering, reading
// time, author and tag resolution, and the inline/untruncated policies.
package blog

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
	"github.com/gunkustom/GunKustom-docs-internal/internal/logfields"
	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
	"github.com/gunkustom/GunKustom-docs-internal/internal/policy"
)

// WordsPerMinute is the reading speed used for reading time.
const WordsPerMinute = 200

// ReadingTime returns whole minutes, rounded up, never below one.
func ReadingTime(words int) int {
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Blog is the prepared blog section.
type Blog struct {
	Posts      []*model.ContentItem
	Authors    map[string]*model.Author
	Tags       map[string]*model.Tag
	PostsByTag map[string][]*model.ContentItem
}

// TagKey normalizes a tag label to its key and URL segment.
func TagKey(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "-")
}

// Prepare sorts posts by date (newest first), fills reading times, resolves
// tags and reports inline tags/authors and untruncated posts under the
// blog preset's policies. Posts must already be rendered.
func Prepare(posts []*model.ContentItem, meta Meta, preset config.BlogPreset, reporter *policy.Reporter) *Blog {
	sorted := append([]*model.ContentItem(nil), posts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Date.IsZero() != b.Date.IsZero() {
			return !a.Date.IsZero()
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.SourcePath < b.SourcePath
	})

	b := &Blog{
		Posts:      sorted,
		Authors:    meta.Authors,
		Tags:       make(map[string]*model.Tag, len(meta.Tags)),
		PostsByTag: make(map[string][]*model.ContentItem),
	}
	if b.Authors == nil {
		b.Authors = map[string]*model.Author{}
	}
	for k, t := range meta.Tags {
		b.Tags[k] = t
	}

	for _, post := range sorted {
		if preset.ShowReadingTime {
			post.ReadingTime = ReadingTime(post.WordCount)
		}
		if !post.Truncated {
			reporter.Report(policy.UntruncatedPost, preset.OnUntruncatedBlogPosts,
				"Blog post has no truncate marker", logfields.Path(post.SourcePath))
		}

		for _, author := range post.Authors {
			if _, ok := b.Authors[author]; !ok {
				reporter.Report(policy.InlineAuthor, preset.OnInlineAuthors,
					"Blog post uses an author not declared in authors.yml",
					logfields.Path(post.SourcePath), slog.String("author", author))
			}
		}

		seen := make(map[string]bool, len(post.Tags))
		for _, label := range post.Tags {
			key := TagKey(label)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if _, ok := meta.Tags[key]; !ok {
				reporter.Report(policy.InlineTag, preset.OnInlineTags,
					"Blog post uses a tag not declared in tags.yml",
					logfields.Path(post.SourcePath), slog.String("tag", label))
				if _, ok := b.Tags[key]; !ok {
					b.Tags[key] = &model.Tag{Key: key, Label: label}
				}
			}
			b.PostsByTag[key] = append(b.PostsByTag[key], post)
		}
	}

	for key, tag := range b.Tags {
		if tag.Permalink == "" {
			tag.Permalink = "/blog/tags/" + key + "/"
		}
	}
	return b
}

// TagKeys returns the keys of tags with at least one post, sorted.
func (b *Blog) TagKeys() []string {
	keys := make([]string, 0, len(b.PostsByTag))
	for k := range b.PostsByTag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
