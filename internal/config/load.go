package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
)

// LoadSite returns the literal record when filename is empty, otherwise the
// record decoded from the YAML file. The result is validated either way.
func LoadSite(filename string) (Site, error) {
	if filename == "" {
		site := Default()
		return site, site.Validate()
	}

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return Site{}, serrors.Wrap(err, serrors.CategoryConfig, fmt.Sprintf("error reading site file %s", filename))
	}
	return ParseSite(yamlFile)
}

// ParseSite decodes a site record strictly; unknown keys are errors.
func ParseSite(data []byte) (Site, error) {
	var site Site
	if err := yaml.UnmarshalStrict(data, &site); err != nil {
		return Site{}, serrors.Wrap(err, serrors.CategoryConfig, "error unmarshalling site file")
	}
	if err := site.Validate(); err != nil {
		return Site{}, err
	}
	return site, nil
}
