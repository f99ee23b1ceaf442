// Package linkcheck finds internal links in rendered HTML that point at
// files missing from the output directory.
package linkcheck

import (
	"io"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/html"

	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
)

// Link is an internal reference found in a page.
type Link struct {
	Page      string // output path of the page, slash separated
	Target    string // the reference as written
	Tag       string
	Attribute string
}

// LinkAttrs are the element attributes Extract follows. Only page links are
// checked by default; assets are not.
var LinkAttrs = map[string]string{
	"a": "href",
}

// Extract returns internal references of r. External URLs, fragments and
// non-http schemes are skipped.
func Extract(r io.Reader, page string) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryValidation, "failed to parse HTML").WithContext("page", page)
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := LinkAttrs[n.Data]; ok {
				for _, a := range n.Attr {
					if a.Key == attr && isInternal(a.Val) {
						links = append(links, Link{Page: page, Target: a.Val, Tag: n.Data, Attribute: attr})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func isInternal(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "#") || strings.HasPrefix(v, "//") {
		return false
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// Checker resolves links against an output file system served under BaseURL.
type Checker struct {
	Output  fs.FS
	BaseURL string
}

// Check walks every .html file of the output and returns the broken links,
// ordered by page then target.
func (c Checker) Check() ([]Link, error) {
	var broken []Link
	err := fs.WalkDir(c.Output, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		f, err := c.Output.Open(p)
		if err != nil {
			return err
		}
		links, err := Extract(f, p)
		_ = f.Close()
		if err != nil {
			return err
		}
		for _, l := range links {
			if !c.exists(p, l.Target) {
				broken = append(broken, l)
			}
		}
		return nil
	})
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryFileSystem, "failed to scan output for links")
	}

	sort.SliceStable(broken, func(i, j int) bool {
		if broken[i].Page != broken[j].Page {
			return broken[i].Page < broken[j].Page
		}
		return broken[i].Target < broken[j].Target
	})
	return broken, nil
}

func (c Checker) exists(page, target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	p := u.Path
	if p == "" {
		return true
	}

	var rel string
	if strings.HasPrefix(p, "/") {
		base := "/" + strings.Trim(c.BaseURL, "/")
		if base != "/" {
			if p != base && !strings.HasPrefix(p, base+"/") {
				return false
			}
			p = strings.TrimPrefix(p, base)
		}
		rel = strings.TrimPrefix(path.Clean("/"+p), "/")
	} else {
		rel = path.Join(path.Dir(page), p)
	}
	if rel == "" {
		rel = "."
	}

	info, err := fs.Stat(c.Output, rel)
	if err != nil {
		if _, err := fs.Stat(c.Output, rel+".html"); err == nil {
			return true
		}
		return false
	}
	if info.IsDir() {
		_, err := fs.Stat(c.Output, path.Join(rel, "index.html"))
		return err == nil
	}
	return true
}
