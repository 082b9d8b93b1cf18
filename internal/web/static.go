package web

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// bundledAssetMarker identifies files that belong to the console engine's
// own asset bundle rather than the application static directory. The
// dashboard bundle ships every script and stylesheet with a "bokeh"
// prefix, so a substring match on the final path segment is enough to
// route the request to the bundled root. The match is a plain substring,
// not a namespace check: an application file that happens to carry the
// marker in its name is served from the bundled root too.
const bundledAssetMarker = "bokeh"

// ErrPathOutsideRoot is returned when a requested static path escapes its
// effective root directory.
var ErrPathOutsideRoot = errors.New("static path outside root")

// StaticHandler serves files under .../static/ paths. Requests whose
// final segment carries the engine asset marker resolve against the
// engine's bundled static root; everything else resolves against the
// configured application root. Root selection is applied identically to
// path resolution and containment validation, so a marker-rewritten path
// is validated against the same root it was resolved under.
//
// The handler keeps no per-request state and is safe for concurrent use.
type StaticHandler struct {
	appRoot    string
	engineRoot string
}

// NewStaticHandler creates a static handler serving appRoot, with
// engine-marked assets redirected to engineRoot.
func NewStaticHandler(appRoot, engineRoot string) *StaticHandler {
	return &StaticHandler{appRoot: appRoot, engineRoot: engineRoot}
}

// effectiveRoot picks the filesystem root for p based on the marker in
// its final segment.
func (h *StaticHandler) effectiveRoot(p string) string {
	if strings.Contains(path.Base(p), bundledAssetMarker) {
		return h.engineRoot
	}
	return h.appRoot
}

// AbsolutePath resolves the slash-separated request path relpath to an
// absolute filesystem path under its effective root.
func (h *StaticHandler) AbsolutePath(relpath string) string {
	root := h.effectiveRoot(relpath)
	return filepath.Join(root, filepath.FromSlash(path.Clean("/"+relpath)))
}

// ValidatePath checks that abs stays inside the effective root for
// relpath. Both operations derive the root from the same input, so a
// path rewritten to the bundled root is never rejected against the
// application root.
func (h *StaticHandler) ValidatePath(relpath, abs string) error {
	root, err := filepath.Abs(h.effectiveRoot(relpath))
	if err != nil {
		return err
	}
	target, err := filepath.Abs(abs)
	if err != nil {
		return err
	}
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return ErrPathOutsideRoot
	}
	return nil
}

// ServeHTTP serves the file addressed by the portion of the URL path
// after its last /static/ segment.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel, ok := staticRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	abs := h.AbsolutePath(rel)
	if err := h.ValidatePath(rel, abs); err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// staticRelPath extracts the file path after the last /static/ segment of
// a URL path. ok is false when the path has no such segment.
func staticRelPath(urlPath string) (rel string, ok bool) {
	idx := strings.LastIndex(urlPath, "/static/")
	if idx < 0 {
		return "", false
	}
	rel = urlPath[idx+len("/static/"):]
	if rel == "" {
		return "", false
	}
	return rel, true
}

// BundledStaticRoot locates the engine's own asset bundle. The bundle is
// unpacked next to the binary at install time; QUASAR_ENGINE_STATIC
// overrides the location for development setups.
func BundledStaticRoot() string {
	if dir := os.Getenv("QUASAR_ENGINE_STATIC"); dir != "" {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join("static", "engine")
	}
	return filepath.Join(filepath.Dir(exe), "static", "engine")
}
