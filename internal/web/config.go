package web

import (
	"net/http"
)

// HandlerFactory builds a route handler bound to the supervisor actor
// address. Factories run once per server start, when the handler registry
// is assembled.
type HandlerFactory func(supervisorAddr string) http.Handler

// AppFactory builds a console application handler bound to the supervisor
// actor address. Apps differ from plain handlers only in how they are
// contributed and merged; once the registry is built they are ordinary
// HTTP handlers.
type AppFactory func(supervisorAddr string) http.Handler

// Config configures the web supervisor. All fields are optional.
type Config struct {
	// Host is the bind address. Empty means "0.0.0.0".
	Host string
	// Port is the listening port. Zero means auto-assign from the port
	// allocator, with bind retries on contention.
	Port int
	// StaticDir is the application static asset root served under
	// .../static/ paths.
	StaticDir string
	// Apps maps URL path patterns to console app factories.
	Apps map[string]AppFactory
	// Handlers maps URL path patterns to plain handler factories.
	Handlers map[string]HandlerFactory
	// PluginModules lists plugin module names resolved at construction
	// time. Modules that cannot be resolved are skipped.
	PluginModules []string
}

// Registry maps URL path patterns to the handlers registered for one
// server start. The special StaticPattern key holds the static asset
// handler, which the engine mounts for any request whose path contains a
// /static/ segment.
type Registry map[string]http.Handler

// StaticPattern is the registry key for the static asset handler. The
// engine matches it against any path ending in /static/<file>, whatever
// the prefix.
const StaticPattern = "*/static/*"
