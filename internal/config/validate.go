package config

import (
	"fmt"
	"net/url"
	"strings"

	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
)

var validPolicies = map[Policy]bool{
	PolicyIgnore: true, PolicyLog: true, PolicyWarn: true, PolicyThrow: true,
}

// Validate checks the record the way a site generator must before building.
// All problems are collected into one config error.
func (s Site) Validate() error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(s.Title) == "" {
		addf("title is required")
	}
	if s.URL == "" {
		addf("url is required")
	} else if u, err := url.Parse(s.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		addf("url %q must be an absolute http(s) URL", s.URL)
	}
	if s.BaseURL == "" {
		addf("baseUrl is required")
	} else if !strings.HasPrefix(s.BaseURL, "/") || !strings.HasSuffix(s.BaseURL, "/") {
		addf("baseUrl %q must start and end with /", s.BaseURL)
	}

	problems = append(problems, s.I18n.problems()...)

	for _, pc := range []struct {
		name   string
		policy Policy
	}{
		{"onBrokenLinks", s.OnBrokenLinks},
		{"onBrokenMarkdownLinks", s.OnBrokenMarkdownLinks},
		{"blog.onInlineTags", s.Blog.OnInlineTags},
		{"blog.onInlineAuthors", s.Blog.OnInlineAuthors},
		{"blog.onUntruncatedBlogPosts", s.Blog.OnUntruncatedBlogPosts},
	} {
		if pc.policy != "" && !validPolicies[pc.policy] {
			addf("%s: unknown policy %q", pc.name, pc.policy)
		}
	}
	for _, t := range s.Blog.Feed.Types {
		if t != "rss" && t != "atom" {
			addf("blog.feedOptions.type: unknown feed type %q", t)
		}
	}

	for i, item := range s.ThemeConfig.Navbar.Items {
		switch item.EffectiveKind() {
		case NavDocSidebar:
			if item.SidebarID == "" {
				addf("navbar item %d (%s): docSidebar needs sidebarId", i, item.Label)
			}
		case NavLink:
			if (item.To == "") == (item.Href == "") {
				addf("navbar item %d (%s): exactly one of to/href is required", i, item.Label)
			}
		default:
			addf("navbar item %d (%s): unknown type %q", i, item.Label, item.Kind)
		}
		if item.Position != "" && item.Position != "left" && item.Position != "right" {
			addf("navbar item %d (%s): position must be left or right", i, item.Label)
		}
	}
	for _, col := range s.ThemeConfig.Footer.Columns {
		for _, item := range col.Items {
			if (item.To == "") == (item.Href == "") {
				addf("footer %q item %q: exactly one of to/href is required", col.Title, item.Label)
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return serrors.New(serrors.CategoryConfig, "invalid site configuration: "+strings.Join(problems, "; ")).
		WithSeverity(serrors.SeverityFatal).
		WithContext("problems", problems)
}

func (i I18n) problems() []string {
	var out []string
	if len(i.Locales) == 0 {
		out = append(out, "i18n.locales must not be empty")
	}
	seen := make(map[string]bool, len(i.Locales))
	for _, l := range i.Locales {
		if l == "" {
			out = append(out, "i18n.locales contains an empty code")
			continue
		}
		if seen[l] {
			out = append(out, fmt.Sprintf("i18n.locales lists %q twice", l))
		}
		seen[l] = true
	}
	if i.DefaultLocale == "" {
		out = append(out, "i18n.defaultLocale is required")
	} else if len(i.Locales) > 0 && !seen[i.DefaultLocale] {
		out = append(out, fmt.Sprintf("i18n.defaultLocale %q is not in i18n.locales", i.DefaultLocale))
	}
	return out
}
