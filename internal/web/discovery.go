package web

import (
	"sync"

	"go.uber.org/zap"
)

// Module is a plugin contributing extra route and app registrations to
// the web console. Framework services (schedulers, storage tiers,
// profilers) register their console pages through this interface without
// the supervisor knowing about them.
type Module interface {
	// WebHandlers returns the module's plain handler registrations.
	WebHandlers() map[string]HandlerFactory
	// Apps returns the module's console app registrations.
	Apps() map[string]AppFactory
}

// ModuleResolver resolves a plugin module by name. ok is false when the
// module is unavailable; the supervisor treats that as a soft failure
// and continues discovery with the next name.
type ModuleResolver func(name string) (Module, bool)

var (
	modulesMu sync.RWMutex
	modules   = make(map[string]Module)
)

// RegisterModule makes a plugin module resolvable by name. Typically
// called from the plugin package's init function. Registering the same
// name twice replaces the earlier module.
func RegisterModule(name string, m Module) {
	modulesMu.Lock()
	defer modulesMu.Unlock()
	modules[name] = m
}

// ResolveModule looks up a registered plugin module. It is the default
// ModuleResolver for supervisors.
func ResolveModule(name string) (Module, bool) {
	modulesMu.RLock()
	defer modulesMu.RUnlock()
	m, ok := modules[name]
	return m, ok
}

// discoverModules merges plugin-contributed registries into cfg, in
// PluginModules order. Later modules overwrite earlier ones and
// config-supplied entries with the same pattern. Unresolvable modules
// are logged and skipped; discovery never fails startup.
func discoverModules(cfg *Config, resolve ModuleResolver, logger *zap.Logger) {
	for _, name := range cfg.PluginModules {
		m, ok := resolve(name)
		if !ok {
			logger.Warn("Web plugin module unavailable, skipping",
				zap.String("module", name))
			continue
		}
		for pattern, factory := range m.WebHandlers() {
			if cfg.Handlers == nil {
				cfg.Handlers = make(map[string]HandlerFactory)
			}
			cfg.Handlers[pattern] = factory
		}
		for pattern, factory := range m.Apps() {
			if cfg.Apps == nil {
				cfg.Apps = make(map[string]AppFactory)
			}
			cfg.Apps[pattern] = factory
		}
		logger.Debug("Merged web plugin module", zap.String("module", name))
	}
}
