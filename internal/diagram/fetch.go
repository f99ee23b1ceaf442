package diagram

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
)

// HTTPFetcher GETs locators relative to BaseURL. It sets no headers and
// imposes no timeout beyond the client's own.
type HTTPFetcher struct {
	Client  *http.Client
	BaseURL *url.URL
}

// NewHTTPFetcher parses base; an empty base accepts only absolute locators.
func NewHTTPFetcher(client *http.Client, base string) (*HTTPFetcher, error) {
	if client == nil {
		client = http.DefaultClient
	}
	f := &HTTPFetcher{Client: client}
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, serrors.Wrap(err, serrors.CategoryConfig, "invalid diagram base URL").WithContext("base_url", base)
		}
		f.BaseURL = u
	}
	return f, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) (string, error) {
	target, err := f.resolve(locator)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", serrors.Wrap(err, serrors.CategoryNetwork, "failed to build diagram request").WithContext("locator", locator)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", serrors.Wrap(err, serrors.CategoryNetwork, "diagram request failed").WithContext("locator", locator)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", serrors.New(serrors.CategoryNetwork, fmt.Sprintf("network response was not ok: %s", resp.Status)).
			WithContext("locator", locator).
			WithContext("status", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", serrors.Wrap(err, serrors.CategoryNetwork, "failed to read diagram body").WithContext("locator", locator)
	}
	return string(body), nil
}

func (f *HTTPFetcher) resolve(locator string) (string, error) {
	ref, err := url.Parse(locator)
	if err != nil {
		return "", serrors.Wrap(err, serrors.CategoryValidation, "invalid diagram locator").WithContext("locator", locator)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if f.BaseURL == nil {
		return "", serrors.New(serrors.CategoryValidation, "relative diagram locator without base URL").WithContext("locator", locator)
	}
	return f.BaseURL.ResolveReference(ref).String(), nil
}

// FSFetcher reads locators from a file system, typically the static
// directory. StripPrefix (e.g. the site base URL) is removed first.
type FSFetcher struct {
	FS          fs.FS
	StripPrefix string
}

func (f FSFetcher) Fetch(ctx context.Context, locator string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := locator
	if prefix := strings.TrimSuffix(f.StripPrefix, "/"); prefix != "" {
		// Strip whole path segments only.
		if rest, ok := strings.CutPrefix(name, prefix); ok && (rest == "" || strings.HasPrefix(rest, "/")) {
			name = rest
		}
	}
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if !fs.ValidPath(name) || name == "." {
		return "", serrors.New(serrors.CategoryValidation, "invalid diagram locator").WithContext("locator", locator)
	}

	data, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return "", serrors.Wrap(err, serrors.CategoryFileSystem, "failed to read diagram").WithContext("locator", locator)
	}
	return string(data), nil
}
