// Package content collects Markdown docs and blog posts from disk and turns
// them into model.ContentItems: frontmatter, titles, dates, permalinks and
// rendered HTML.
package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
	"github.com/gunkustom/GunKustom-docs-internal/internal/logfields"
	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
)

var (
	datedName  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-(.+)$`)
	h1Line     = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t#]*$`)
	dateLayout = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}
)

// Collector reads one content section (docs or blog) under Root.
type Collector struct {
	Root    string
	EditURL string
	Drafts  bool
	Logger  *slog.Logger
}

// Collect walks Root/section and returns one item per .md file, sorted by
// source path. Files and directories starting with "_" are partials and
// are skipped.
func (c *Collector) Collect(section string, kind model.Kind) ([]*model.ContentItem, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dir := filepath.Join(c.Root, section)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Debug("Content directory not found, skipping", logfields.Path(dir))
		return nil, nil
	}

	var items []*model.ContentItem
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", p, walkErr)
		}
		if strings.HasPrefix(d.Name(), "_") && p != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		item, err := c.read(p, section, filepath.ToSlash(rel), kind, logger)
		if err != nil {
			return err
		}
		if item.Draft && !c.Drafts {
			logger.Debug("Skipping draft", logfields.Path(item.SourcePath))
			return nil
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryFileSystem, "error during content collection walk").WithContext("section", section)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].SourcePath < items[j].SourcePath })
	return items, nil
}

func (c *Collector) read(p, section, rel string, kind model.Kind, logger *slog.Logger) (*model.ContentItem, error) {
	fileBytes, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", p, err)
	}

	var fmData map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(fileBytes), &fmData)
	if err != nil {
		logger.Warn("Could not parse frontmatter, treating as pure markdown", logfields.Path(p), logfields.Error(err))
		body = fileBytes
		fmData = nil
	}
	if fmData == nil {
		fmData = make(map[string]interface{})
	}

	item := &model.ContentItem{
		Kind:         kind,
		SourcePath:   path.Join(section, rel),
		RelPath:      rel,
		Body:         body,
		Frontmatter:  fmData,
		Description:  stringField(fmData, "description"),
		Slug:         stringField(fmData, "slug"),
		Layout:       stringField(fmData, "layout"),
		SidebarLabel: stringField(fmData, "sidebar_label"),
		Tags:         stringList(fmData["tags"]),
		Authors:      stringList(fmData["authors"]),
		WordCount:    len(strings.Fields(string(body))),
	}
	if draft, ok := fmData["draft"].(bool); ok {
		item.Draft = draft
	}
	if pos, ok := number(fmData["sidebar_position"]); ok {
		item.SidebarPosition = pos
		item.HasSidebarPosition = true
	}
	if c.EditURL != "" {
		item.EditURL = strings.TrimSuffix(c.EditURL, "/") + "/" + item.SourcePath
	}

	item.Title = pageTitle(fmData, body, rel)

	name := baseName(rel)
	if m := datedName.FindStringSubmatch(name); m != nil {
		if d, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3]); err == nil {
			item.Date = d
		}
		name = m[4]
	}
	if d, ok := fmData["date"]; ok {
		if parsed, ok := parseDate(d); ok {
			item.Date = parsed
		} else {
			logger.Warn("Could not parse date, use YYYY-MM-DD or RFC3339", logfields.Path(p), slog.Any("date", d))
		}
	}

	switch kind {
	case model.KindPost:
		item.Permalink = postPermalink(item, name)
	default:
		item.Permalink = docPermalink(rel, item.Slug)
	}
	return item, nil
}

func pageTitle(fmData map[string]interface{}, body []byte, rel string) string {
	if t := stringField(fmData, "title"); t != "" {
		return t
	}
	if m := h1Line.FindSubmatch(body); m != nil {
		return string(m[1])
	}
	name := baseName(rel)
	if m := datedName.FindStringSubmatch(name); m != nil {
		name = m[4]
	}
	tempTitle := strings.ReplaceAll(strings.ReplaceAll(name, "-", " "), "_", " ")
	return cases.Title(language.English).String(tempTitle)
}

// baseName is the file name without extension, or the directory name for
// index.md and README.md files.
func baseName(rel string) string {
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if isIndex(name) {
		if dir := path.Dir(rel); dir != "." {
			return path.Base(dir)
		}
	}
	return name
}

func isIndex(name string) bool {
	return strings.EqualFold(name, "index") || strings.EqualFold(name, "readme")
}

func docPermalink(rel, slug string) string {
	trimmed := strings.TrimSuffix(rel, path.Ext(rel))
	if isIndex(path.Base(trimmed)) {
		trimmed = path.Dir(trimmed)
	}
	if slug != "" {
		if strings.HasPrefix(slug, "/") {
			trimmed = slug
		} else {
			trimmed = path.Join(path.Dir(trimmed), slug)
		}
	}
	return cleanPermalink("/docs/" + trimmed)
}

func postPermalink(item *model.ContentItem, name string) string {
	if item.Slug != "" {
		return cleanPermalink("/blog/" + item.Slug)
	}
	if !item.Date.IsZero() {
		return cleanPermalink(fmt.Sprintf("/blog/%s/%s", item.Date.Format("2006/01/02"), name))
	}
	return cleanPermalink("/blog/" + name)
}

func cleanPermalink(p string) string {
	p = path.Clean("/" + p)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func stringList(v interface{}) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	}
	return nil
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func parseDate(v interface{}) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		for _, layout := range dateLayout {
			if t, err := time.Parse(layout, d); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
