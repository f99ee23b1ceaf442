package diagram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
)

func newDiagramServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/diagrams/a.drawio", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("<xml>A</xml>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher(t *testing.T) {
	srv := newDiagramServer(t)
	f, err := NewHTTPFetcher(srv.Client(), srv.URL)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		body, err := f.Fetch(context.Background(), "/diagrams/a.drawio")
		require.NoError(t, err)
		assert.Equal(t, "<xml>A</xml>", body)
	})

	t.Run("absolute locator ignores base", func(t *testing.T) {
		body, err := f.Fetch(context.Background(), srv.URL+"/diagrams/a.drawio")
		require.NoError(t, err)
		assert.Equal(t, "<xml>A</xml>", body)
	})

	t.Run("failure status", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), "/diagrams/missing.drawio")
		require.Error(t, err)
		assert.True(t, serrors.IsCategory(err, serrors.CategoryNetwork))
		assert.Contains(t, err.Error(), "404")
	})
}

func TestHTTPFetcher_RelativeWithoutBase(t *testing.T) {
	f, err := NewHTTPFetcher(nil, "")
	require.NoError(t, err)
	_, err = f.Fetch(context.Background(), "/diagrams/a.drawio")
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryValidation))
}

func TestViewer_WithHTTPFetcher(t *testing.T) {
	srv := newDiagramServer(t)
	f, err := NewHTTPFetcher(srv.Client(), srv.URL)
	require.NoError(t, err)

	v := NewViewer(f)
	v.Mount(context.Background(), "/diagrams/a.drawio")
	require.NoError(t, v.Wait(context.Background()))
	assert.Equal(t, "<xml>A</xml>", v.Content())

	v.Mount(context.Background(), "/diagrams/missing.drawio")
	require.NoError(t, v.Wait(context.Background()))
	assert.Empty(t, v.Content())
	assert.Error(t, v.Err())
}

func TestFSFetcher(t *testing.T) {
	fsys := fstest.MapFS{
		"diagrams/a.drawio": &fstest.MapFile{Data: []byte("<xml>A</xml>")},
		"X/a.drawio":        &fstest.MapFile{Data: []byte("<xml>X</xml>")},
	}
	base := "/GunKustom-docs-internal/"

	tests := []struct {
		name    string
		fetcher FSFetcher
		locator string
		want    string
		wantErr bool
	}{
		{"site relative", FSFetcher{FS: fsys}, "/diagrams/a.drawio", "<xml>A</xml>", false},
		{"without leading slash", FSFetcher{FS: fsys}, "diagrams/a.drawio", "<xml>A</xml>", false},
		{"base url stripped", FSFetcher{FS: fsys, StripPrefix: base}, "/GunKustom-docs-internal/diagrams/a.drawio", "<xml>A</xml>", false},
		{"base url without trailing slash", FSFetcher{FS: fsys, StripPrefix: "/GunKustom-docs-internal"}, "/GunKustom-docs-internal/diagrams/a.drawio", "<xml>A</xml>", false},
		{"base url only", FSFetcher{FS: fsys, StripPrefix: base}, "/GunKustom-docs-internal", "", true},
		{"prefix inside a segment kept", FSFetcher{FS: fsys, StripPrefix: base}, "/GunKustom-docs-internalX/a.drawio", "", true},
		{"root prefix", FSFetcher{FS: fsys, StripPrefix: "/"}, "/diagrams/a.drawio", "<xml>A</xml>", false},
		{"dot dot stays inside", FSFetcher{FS: fsys}, "/../diagrams/a.drawio", "<xml>A</xml>", false},
		{"missing", FSFetcher{FS: fsys}, "/diagrams/missing.drawio", "", true},
		{"root", FSFetcher{FS: fsys}, "/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fetcher.Fetch(context.Background(), tt.locator)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFSFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FSFetcher{FS: fstest.MapFS{}}.Fetch(ctx, "/a.drawio")
	assert.ErrorIs(t, err, context.Canceled)
}
