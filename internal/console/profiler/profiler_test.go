package profiler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quasarlab/quasar/internal/web"
)

func TestModuleIsRegistered(t *testing.T) {
	m, ok := web.ResolveModule(ModuleName)
	require.True(t, ok)
	assert.Contains(t, m.WebHandlers(), "/profiler/api/summary")
	assert.Contains(t, m.Apps(), "/profiler")
}

func TestSummaryHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	summaryHandler("127.0.0.1:7077").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profiler/api/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "127.0.0.1:7077")
}

func TestDashboardApp(t *testing.T) {
	rec := httptest.NewRecorder()
	dashboardApp("127.0.0.1:7077").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profiler", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Task Profiler")
}
