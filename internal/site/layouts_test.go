package site

import (
	"bytes"
	"html/template"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"/":                 "index.html",
		"":                  "index.html",
		"/docs/intro/":      "docs/intro/index.html",
		"/blog/tags/go/":    "blog/tags/go/index.html",
		"/blog/2024/01/02/": "blog/2024/01/02/index.html",
	}
	for permalink, want := range tests {
		assert.Equal(t, want, outputPath(permalink), permalink)
	}
}

func stubFuncs() template.FuncMap {
	return template.FuncMap{
		"url":        func(s string) string { return s },
		"absURL":     func(s string) string { return s },
		"date":       func(any) string { return "" },
		"liveReload": func() template.HTML { return "" },
		"feeds":      func() []feedLink { return nil },
		"authors":    func(any) []any { return nil },
		"tags":       func(any) []any { return nil },
	}
}

func TestParseLayouts_Builtin(t *testing.T) {
	layouts, err := parseLayouts(filepath.Join(t.TempDir(), "missing"), stubFuncs())
	require.NoError(t, err)
	for _, name := range pageLayouts {
		require.Contains(t, layouts, name)
		assert.NotNil(t, layouts[name].Lookup(layoutBase), name)
		assert.NotNil(t, layouts[name].Lookup("post-meta"), name)
	}
}

func TestParseLayouts_OverrideKeepsOtherPages(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "base.html", `<main>{{block "content" .}}{{end}}</main>`)
	writeSource(t, dir, "404.html", `{{define "content"}}gone{{end}}`)
	writeSource(t, dir, "partials/extra.html", `{{define "extra"}}x{{end}}`)

	layouts, err := parseLayouts(dir, stubFuncs())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, layouts[layout404].ExecuteTemplate(&buf, layoutBase, nil))
	assert.Equal(t, "<main>gone</main>", buf.String())
	assert.NotNil(t, layouts[layoutHome].Lookup("extra"))
	assert.NotNil(t, layouts[layoutHome].Lookup("post-meta"))
}

func TestParseLayouts_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "doc.html", `{{define "content"}}{{.Broken{{end}}`)

	_, err := parseLayouts(dir, stubFuncs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doc.html")
}
