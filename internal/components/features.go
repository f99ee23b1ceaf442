// Package components renders the site's presentational pieces: the homepage
// feature showcase, the navbar, the footer and the docs sidebar. Every
// function here is a pure mapping from its arguments to markup.
package components

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Icon is an image shown above a feature.
type Icon struct {
	Src string
	Alt string
}

// FeatureItem is one entry of the showcase. An empty Title renders no
// heading; a nil Icon or Description renders nothing for that part. An empty
// but present Description still renders its paragraph.
type FeatureItem struct {
	Title       string
	Icon        *Icon
	Description g.Node
}

// HomepageFeatures is the fixed feature list shown on the home page.
var HomepageFeatures = []FeatureItem{
	{Title: "", Icon: &Icon{Src: "img/gunkustom.svg", Alt: "GunKustom"}},
}

// Features renders items in input order inside the showcase container.
func Features(items []FeatureItem) g.Node {
	return h.Section(h.Class("features"),
		h.Div(h.Class("container"),
			h.Div(h.Class("row justify-center align-center"),
				g.Map(items, feature),
			),
		),
	)
}

func feature(item FeatureItem) g.Node {
	return h.Div(h.Class("col col--12 feature"),
		h.Div(h.Class("text--center"),
			g.If(item.Icon != nil, icon(item.Icon)),
		),
		h.Div(h.Class("text--center padding-horiz--md"),
			g.If(item.Title != "", h.H3(g.Text(item.Title))),
			g.If(item.Description != nil, h.P(item.Description)),
		),
	)
}

func icon(i *Icon) g.Node {
	if i == nil {
		return nil
	}
	return h.Img(h.Class("featureSvg"), g.Attr("role", "img"), h.Src(i.Src), h.Alt(i.Alt))
}
