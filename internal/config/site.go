package config

import (
	"fmt"
	"time"
)

// Policy says what to do with a content finding such as a broken link.
type Policy string

const (
	PolicyIgnore Policy = "ignore"
	PolicyLog    Policy = "log"
	PolicyWarn   Policy = "warn"
	PolicyThrow  Policy = "throw"
)

// Navbar item kinds.
const (
	NavDocSidebar = "docSidebar"
	NavLink       = "link"
)

// Site is the site configuration record. It is built once and never mutated.
type Site struct {
	Title                 string      `yaml:"title"`
	Tagline               string      `yaml:"tagline"`
	Favicon               string      `yaml:"favicon"`
	URL                   string      `yaml:"url"`
	BaseURL               string      `yaml:"baseUrl"`
	OrganizationName      string      `yaml:"organizationName"`
	ProjectName           string      `yaml:"projectName"`
	OnBrokenLinks         Policy      `yaml:"onBrokenLinks"`
	OnBrokenMarkdownLinks Policy      `yaml:"onBrokenMarkdownLinks"`
	I18n                  I18n        `yaml:"i18n"`
	Docs                  DocsPreset  `yaml:"docs"`
	Blog                  BlogPreset  `yaml:"blog"`
	Theme                 Theme       `yaml:"theme"`
	ThemeConfig           ThemeConfig `yaml:"themeConfig"`
}

// I18n lists the locales; DefaultLocale must be one of Locales.
type I18n struct {
	DefaultLocale string   `yaml:"defaultLocale"`
	Locales       []string `yaml:"locales"`
}

type DocsPreset struct {
	SidebarID string `yaml:"sidebarId"`
	EditURL   string `yaml:"editUrl"`
}

type BlogPreset struct {
	ShowReadingTime        bool        `yaml:"showReadingTime"`
	Feed                   FeedOptions `yaml:"feedOptions"`
	EditURL                string      `yaml:"editUrl"`
	OnInlineTags           Policy      `yaml:"onInlineTags"`
	OnInlineAuthors        Policy      `yaml:"onInlineAuthors"`
	OnUntruncatedBlogPosts Policy      `yaml:"onUntruncatedBlogPosts"`
}

type FeedOptions struct {
	Types []string `yaml:"type"`
	XSLT  bool     `yaml:"xslt"`
}

type Theme struct {
	CustomCSS string `yaml:"customCss"`
}

type ThemeConfig struct {
	Image  string     `yaml:"image"`
	Navbar Navbar     `yaml:"navbar"`
	Footer Footer     `yaml:"footer"`
	Code   CodeThemes `yaml:"prism"`
}

type Navbar struct {
	Title string    `yaml:"title"`
	Logo  Logo      `yaml:"logo"`
	Items []NavItem `yaml:"items"`
}

type Logo struct {
	Alt string `yaml:"alt"`
	Src string `yaml:"src"`
}

// NavItem is one navbar entry. Link items carry exactly one of To (site
// relative) or Href (external); docSidebar items name a sidebar instead.
type NavItem struct {
	Kind      string `yaml:"type"`
	Label     string `yaml:"label"`
	To        string `yaml:"to"`
	Href      string `yaml:"href"`
	SidebarID string `yaml:"sidebarId"`
	Position  string `yaml:"position"`
}

// Target returns the item's destination for link items.
func (n NavItem) Target() string {
	if n.Href != "" {
		return n.Href
	}
	return n.To
}

// EffectiveKind treats an unset kind as a plain link.
func (n NavItem) EffectiveKind() string {
	if n.Kind == "" {
		return NavLink
	}
	return n.Kind
}

type Footer struct {
	Style     string         `yaml:"style"`
	Columns   []FooterColumn `yaml:"links"`
	Copyright string         `yaml:"copyright"`
}

type FooterColumn struct {
	Title string     `yaml:"title"`
	Items []LinkItem `yaml:"items"`
}

type LinkItem struct {
	Label string `yaml:"label"`
	To    string `yaml:"to"`
	Href  string `yaml:"href"`
}

func (l LinkItem) Target() string {
	if l.Href != "" {
		return l.Href
	}
	return l.To
}

// CodeThemes names the light and dark code highlighting themes.
type CodeThemes struct {
	Light string `yaml:"theme"`
	Dark  string `yaml:"darkTheme"`
}

const repoURL = "https://github.com/gunkustom/GunKustom-docs-internal"

// Default returns the GunKustom site record.
func Default() Site {
	editURL := repoURL + "/tree/main/"
	return Site{
		Title:                 "GunKustom",
		Tagline:               "Internal Docs Server",
		Favicon:               "img/favicon.ico",
		URL:                   "https://gunkustom.github.io",
		BaseURL:               "/GunKustom-docs-internal/",
		OrganizationName:      "gunkustom",
		ProjectName:           "GunKustom-docs-internal",
		OnBrokenLinks:         PolicyThrow,
		OnBrokenMarkdownLinks: PolicyWarn,
		I18n: I18n{
			DefaultLocale: "en",
			Locales:       []string{"en"},
		},
		Docs: DocsPreset{
			SidebarID: "tutorialSidebar",
			EditURL:   editURL,
		},
		Blog: BlogPreset{
			ShowReadingTime:        true,
			Feed:                   FeedOptions{Types: []string{"rss", "atom"}, XSLT: true},
			EditURL:                editURL,
			OnInlineTags:           PolicyWarn,
			OnInlineAuthors:        PolicyWarn,
			OnUntruncatedBlogPosts: PolicyWarn,
		},
		Theme: Theme{CustomCSS: "css/custom.css"},
		ThemeConfig: ThemeConfig{
			Image: "img/docusaurus-social-card.jpg",
			Navbar: Navbar{
				Title: "GunKustom",
				Logo:  Logo{Alt: "GunKustom Logo", Src: "img/GunKustom-Logo-2.png"},
				Items: []NavItem{
					{Kind: NavDocSidebar, SidebarID: "tutorialSidebar", Position: "left", Label: "Our Docs"},
					{Kind: NavLink, To: "/blog", Label: "Blog", Position: "left"},
					{Kind: NavLink, Href: repoURL, Label: "GitHub", Position: "right"},
				},
			},
			Footer: Footer{
				Style: "dark",
				Columns: []FooterColumn{
					{Title: "Docs", Items: []LinkItem{{Label: "Docs", To: "/docs/intro"}}},
					{Title: "Community", Items: []LinkItem{
						{Label: "Stack Overflow", Href: "https://stackoverflow.com/questions/tagged/docusaurus"},
						{Label: "Discord", Href: "https://discordapp.com/invite/docusaurus"},
						{Label: "X", Href: "https://x.com/docusaurus"},
					}},
					{Title: "More", Items: []LinkItem{
						{Label: "Blog", To: "/blog"},
						{Label: "GitHub", Href: repoURL},
					}},
				},
				Copyright: fmt.Sprintf("Copyright © %d GunKustom. Built with Go.", time.Now().Year()),
			},
			Code: CodeThemes{Light: "github", Dark: "dracula"},
		},
	}
}
