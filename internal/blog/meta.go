package blog

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
	"github.com/gunkustom/GunKustom-docs-internal/internal/model"
)

// Meta holds the declared authors and tags of a blog directory.
type Meta struct {
	Authors map[string]*model.Author
	Tags    map[string]*model.Tag
}

// LoadMeta reads authors.yml and tags.yml from dir. Missing files declare
// nothing.
func LoadMeta(dir string) (Meta, error) {
	var meta Meta

	authors := map[string]*model.Author{}
	if err := readYAML(filepath.Join(dir, "authors.yml"), &authors); err != nil {
		return meta, err
	}
	for k, a := range authors {
		if a == nil {
			a = &model.Author{}
			authors[k] = a
		}
		a.Key = k
		if a.Name == "" {
			a.Name = k
		}
	}

	declared := map[string]*model.Tag{}
	if err := readYAML(filepath.Join(dir, "tags.yml"), &declared); err != nil {
		return meta, err
	}
	tags := make(map[string]*model.Tag, len(declared))
	for k, t := range declared {
		if t == nil {
			t = &model.Tag{}
		}
		t.Key = TagKey(k)
		if t.Label == "" {
			t.Label = k
		}
		if t.Permalink != "" {
			t.Permalink = "/blog/tags/" + strings.Trim(t.Permalink, "/") + "/"
		}
		tags[t.Key] = t
	}

	meta.Authors = authors
	meta.Tags = tags
	return meta, nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return serrors.Wrap(err, serrors.CategoryFileSystem, "error reading "+filepath.Base(path))
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return serrors.Wrap(err, serrors.CategoryConfig, "error unmarshalling "+filepath.Base(path)).WithContext("path", path)
	}
	return nil
}
