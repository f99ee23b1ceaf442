package components

import (
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
)

// URLFor maps a site relative target ("/blog") to a served URL.
type URLFor func(target string) string

// BaseURLFor prefixes site relative targets with baseURL and leaves absolute
// URLs and fragments alone.
func BaseURLFor(baseURL string) URLFor {
	base := strings.TrimSuffix(baseURL, "/")
	return func(target string) string {
		if IsExternal(target) || strings.HasPrefix(target, "#") {
			return target
		}
		if !strings.HasPrefix(target, "/") {
			target = "/" + target
		}
		return base + target
	}
}

// IsExternal reports whether target leaves the site.
func IsExternal(target string) bool {
	return strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "mailto:") ||
		strings.HasPrefix(target, "//")
}

func link(url URLFor, target string, class string, children ...g.Node) g.Node {
	attrs := []g.Node{h.Class(class), h.Href(url(target))}
	if IsExternal(target) {
		attrs = append(attrs, h.Target("_blank"), h.Rel("noopener noreferrer"))
	}
	return h.A(append(attrs, children...)...)
}

// Navbar renders the top navigation. Sidebars maps sidebar ids to the
// permalink of their first doc.
func Navbar(nav config.Navbar, sidebars map[string]string, url URLFor) g.Node {
	var left, right []g.Node
	for _, item := range nav.Items {
		target := item.Target()
		if item.EffectiveKind() == config.NavDocSidebar {
			target = sidebars[item.SidebarID]
			if target == "" {
				continue
			}
		}
		n := link(url, target, "navbar__item navbar__link", g.Text(item.Label))
		if item.Position == "right" {
			right = append(right, n)
		} else {
			left = append(left, n)
		}
	}

	brand := h.A(h.Class("navbar__brand"), h.Href(url("/")),
		g.If(nav.Logo.Src != "", h.Div(h.Class("navbar__logo"),
			h.Img(h.Src(url(nav.Logo.Src)), h.Alt(nav.Logo.Alt)),
		)),
		g.If(nav.Title != "", h.B(h.Class("navbar__title"), g.Text(nav.Title))),
	)

	return h.Nav(h.Class("navbar navbar--fixed-top"),
		h.Div(h.Class("navbar__inner"),
			h.Div(h.Class("navbar__items"), brand, g.Group(left)),
			h.Div(h.Class("navbar__items navbar__items--right"), g.Group(right)),
		),
	)
}

// Footer renders the link columns and the copyright line.
func Footer(f config.Footer, url URLFor) g.Node {
	style := f.Style
	if style == "" {
		style = "light"
	}
	return h.Footer(h.Class("footer footer--"+style),
		h.Div(h.Class("container"),
			h.Div(h.Class("row footer__links"),
				g.Map(f.Columns, func(col config.FooterColumn) g.Node {
					return h.Div(h.Class("col footer__col"),
						h.Div(h.Class("footer__title"), g.Text(col.Title)),
						h.Ul(h.Class("footer__items"),
							g.Map(col.Items, func(item config.LinkItem) g.Node {
								return h.Li(h.Class("footer__item"),
									link(url, item.Target(), "footer__link-item", g.Text(item.Label)),
								)
							}),
						),
					)
				}),
			),
			g.If(f.Copyright != "", h.Div(h.Class("footer__copyright"), g.Text(f.Copyright))),
		),
	)
}

// Sidebar renders the docs tree and marks the entry for active.
func Sidebar(sb model.Sidebar, active string, url URLFor) g.Node {
	return h.Aside(h.Class("sidebar"),
		h.Nav(h.Class("menu"), sidebarList(sb.Items, active, url)),
	)
}

func sidebarList(nodes []*model.SidebarNode, active string, url URLFor) g.Node {
	return h.Ul(h.Class("menu__list"),
		g.Map(nodes, func(n *model.SidebarNode) g.Node {
			if n.IsCategory() {
				return h.Li(h.Class("menu__list-item"),
					h.Div(h.Class("menu__caret"), g.Text(n.Label)),
					sidebarList(n.Children, active, url),
				)
			}
			class := "menu__link"
			if n.Permalink == active {
				class += " menu__link--active"
			}
			return h.Li(h.Class("menu__list-item"),
				h.A(h.Class(class), h.Href(url(n.Permalink)), g.Text(n.Label)),
			)
		}),
	)
}
