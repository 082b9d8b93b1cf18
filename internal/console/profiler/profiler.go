// Package profiler contributes the task profiling pages to the web
// console. It registers itself as the "profiler" plugin module; the
// console picks it up when the module name appears in the configured
// plugin list.
package profiler

import (
	"net/http"

	"github.com/quasarlab/quasar/internal/web"
)

// ModuleName is the plugin module name used in configuration.
const ModuleName = "profiler"

func init() {
	web.RegisterModule(ModuleName, module{})
}

type module struct{}

func (module) WebHandlers() map[string]web.HandlerFactory {
	return map[string]web.HandlerFactory{
		"/profiler/api/summary": summaryHandler,
	}
}

func (module) Apps() map[string]web.AppFactory {
	return map[string]web.AppFactory{
		"/profiler": dashboardApp,
	}
}

func summaryHandler(supervisorAddr string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Profiling data is collected per task band; until a band is
		// selected there is nothing to aggregate.
		_, _ = w.Write([]byte(`{"supervisor_address":"` + supervisorAddr + `","bands":[]}`))
	})
}

const dashboardPage = `<!DOCTYPE html>
<html>
<head><title>Quasar Profiler</title></head>
<body>
<h1>Task Profiler</h1>
<div id="profiler-root" data-api="/profiler/api/summary"></div>
<script src="/profiler/static/bokeh-widgets.js"></script>
</body>
</html>
`

func dashboardApp(supervisorAddr string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(dashboardPage))
	})
}
