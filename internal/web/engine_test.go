package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quasarlab/quasar/pkg/netutil"
)

func TestGinEngine_BuildRouterServesRegistry(t *testing.T) {
	appRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(appRoot, "app.css"), []byte("body{}"), 0o644))

	registry := Registry{
		"/hello": http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
		StaticPattern: NewStaticHandler(appRoot, t.TempDir()),
	}

	engine := NewGinEngine(testLogger())
	router := engine.buildRouter(registry)

	tests := []struct {
		name     string
		urlPath  string
		wantCode int
	}{
		{name: "registered route", urlPath: "/hello", wantCode: http.StatusTeapot},
		{name: "static at root mount", urlPath: "/static/app.css", wantCode: http.StatusOK},
		{name: "static under arbitrary prefix", urlPath: "/any/prefix/static/app.css", wantCode: http.StatusOK},
		{name: "unknown route", urlPath: "/nope", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.urlPath, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestGinEngine_StartStop(t *testing.T) {
	port, err := netutil.NextFreePort()
	require.NoError(t, err)

	engine := NewGinEngine(testLogger())
	registry := Registry{
		"/ping": http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	}

	require.NoError(t, engine.Start("127.0.0.1", port, registry))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = engine.Stop(ctx)
	}()

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGinEngine_BindConflictIsClassified(t *testing.T) {
	port, err := netutil.NextFreePort()
	require.NoError(t, err)

	first := NewGinEngine(testLogger())
	require.NoError(t, first.Start("127.0.0.1", port, Registry{}))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = first.Stop(ctx)
	}()

	second := NewGinEngine(testLogger())
	err = second.Start("127.0.0.1", port, Registry{})
	require.Error(t, err)
	assert.True(t, IsBindError(err), "expected address-in-use classification, got %v", err)
}

func TestGinEngine_StopBeforeStart(t *testing.T) {
	engine := NewGinEngine(testLogger())
	assert.NoError(t, engine.Stop(context.Background()))
}
