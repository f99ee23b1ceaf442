package components

import (
	"html/template"
	"strings"

	g "maragu.dev/gomponents"
)

// HTML renders n for use inside html/template layouts.
func HTML(n g.Node) (template.HTML, error) {
	var b strings.Builder
	if n == nil {
		return "", nil
	}
	if err := n.Render(&b); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}
