package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRelPath(t *testing.T) {
	tests := []struct {
		urlPath string
		want    string
		ok      bool
	}{
		{urlPath: "/static/app.css", want: "app.css", ok: true},
		{urlPath: "/console/dash/static/js/plot.js", want: "js/plot.js", ok: true},
		{urlPath: "/a/static/b/static/c.js", want: "c.js", ok: true},
		{urlPath: "/static/", want: "", ok: false},
		{urlPath: "/api/cluster", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.urlPath, func(t *testing.T) {
			got, ok := staticRelPath(tt.urlPath)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStaticHandler_RootSelection(t *testing.T) {
	h := NewStaticHandler("/srv/app/static", "/srv/engine/static")

	tests := []struct {
		name    string
		relpath string
		root    string
	}{
		{name: "engine asset by marker", relpath: "bokeh-widgets.js", root: "/srv/engine/static"},
		{name: "engine asset in subdir", relpath: "js/bokeh.min.js", root: "/srv/engine/static"},
		{name: "app asset", relpath: "app.css", root: "/srv/app/static"},
		{name: "marker in directory only", relpath: "bokeh/app.css", root: "/srv/app/static"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs := h.AbsolutePath(tt.relpath)
			assert.Equal(t, filepath.Join(tt.root, filepath.FromSlash(tt.relpath)), abs)

			// Resolution and validation must agree on the effective root.
			assert.NoError(t, h.ValidatePath(tt.relpath, abs))
		})
	}
}

func TestStaticHandler_ValidatePathRejectsEscapes(t *testing.T) {
	h := NewStaticHandler("/srv/app/static", "/srv/engine/static")

	assert.ErrorIs(t, h.ValidatePath("app.css", "/etc/passwd"), ErrPathOutsideRoot)
	// Engine-marked file validated against the engine root, not the app
	// root.
	assert.ErrorIs(t, h.ValidatePath("bokeh-widgets.js", "/srv/app/static/bokeh-widgets.js"), ErrPathOutsideRoot)
}

func TestStaticHandler_ServeHTTP(t *testing.T) {
	appRoot := t.TempDir()
	engineRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(appRoot, "app.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(engineRoot, "bokeh-widgets.js"), []byte("// widgets"), 0o644))

	h := NewStaticHandler(appRoot, engineRoot)

	tests := []struct {
		name     string
		urlPath  string
		wantCode int
		wantBody string
	}{
		{name: "app asset from app root", urlPath: "/static/app.css", wantCode: http.StatusOK, wantBody: "body{}"},
		{name: "engine asset from bundled root", urlPath: "/console/static/bokeh-widgets.js", wantCode: http.StatusOK, wantBody: "// widgets"},
		{name: "engine-marked file absent from bundle", urlPath: "/static/bokeh-missing.js", wantCode: http.StatusNotFound},
		{name: "unknown app file", urlPath: "/static/missing.css", wantCode: http.StatusNotFound},
		{name: "no static segment", urlPath: "/app.css", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.urlPath, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestStaticHandler_TraversalNeutralized(t *testing.T) {
	appRoot := t.TempDir()
	h := NewStaticHandler(appRoot, t.TempDir())

	// Dot-dot segments are cleaned relative to the root, never above it.
	abs := h.AbsolutePath("../../etc/passwd")
	assert.NoError(t, h.ValidatePath("../../etc/passwd", abs))
	assert.Equal(t, filepath.Join(appRoot, "etc", "passwd"), abs)
}
