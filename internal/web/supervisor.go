package web

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/quasarlab/quasar/internal/actor"
	"github.com/quasarlab/quasar/pkg/netutil"
)

// maxBindRetries bounds the number of bind attempts when the port is
// auto-assigned. Ephemeral-port races are transient (another process can
// grab a free port between allocation and bind), so the loop draws a
// fresh candidate per attempt. An explicitly configured port is never
// retried.
const maxBindRetries = 5

// State is the supervisor lifecycle state. Transitions run strictly
// forward; a stopped supervisor cannot be restarted.
type State int32

const (
	StateCreated State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Address is the resolved listening address, recorded exactly once when
// the start transition succeeds.
type Address struct {
	Host string
	Port int
}

// PortAllocator returns the next free ephemeral port. Injected so tests
// can supply deterministic sequences; production uses netutil.NextFreePort.
type PortAllocator func() (int, error)

// Engine is the embedded HTTP server capability. Start must report bind
// failures synchronously so the supervisor can classify and retry them.
type Engine interface {
	Start(host string, port int, registry Registry) error
	Stop(ctx context.Context) error
}

// Supervisor runs the console web server as a managed actor inside the
// framework supervisor process. It owns address resolution, the
// bind/retry state machine, handler registry assembly, and graceful
// shutdown. The hosting actor pool serializes lifecycle transitions, so
// the supervisor needs no lock of its own for them.
type Supervisor struct {
	cfg      Config
	logger   *zap.Logger
	engine   Engine
	nextPort PortAllocator
	resolve  ModuleResolver

	// windowsLike rewrites a wildcard bind host to loopback when the
	// public address is queried. The stored address keeps the true bind
	// host.
	windowsLike bool

	engineStaticRoot string

	state          State
	addr           *Address
	supervisorAddr string
}

// Option customizes a Supervisor.
type Option func(*Supervisor)

// WithEngine replaces the default gin engine.
func WithEngine(e Engine) Option {
	return func(s *Supervisor) { s.engine = e }
}

// WithPortAllocator replaces the default free-port allocator.
func WithPortAllocator(next PortAllocator) Option {
	return func(s *Supervisor) { s.nextPort = next }
}

// WithModuleResolver replaces the default plugin module resolver.
func WithModuleResolver(resolve ModuleResolver) Option {
	return func(s *Supervisor) { s.resolve = resolve }
}

// WithWindowsLike overrides host platform detection for the public
// address rewrite.
func WithWindowsLike(v bool) Option {
	return func(s *Supervisor) { s.windowsLike = v }
}

// WithEngineStaticRoot overrides the engine asset bundle location.
func WithEngineStaticRoot(dir string) Option {
	return func(s *Supervisor) { s.engineStaticRoot = dir }
}

// NewSupervisor creates a web supervisor and immediately merges
// plugin-discovered registries into the configuration. Discovery
// failures are swallowed: a missing plugin must never keep the console
// from starting.
func NewSupervisor(cfg Config, logger *zap.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		cfg:              cfg,
		logger:           logger,
		nextPort:         netutil.NextFreePort,
		resolve:          ResolveModule,
		windowsLike:      runtime.GOOS == "windows",
		engineStaticRoot: BundledStaticRoot(),
		state:            StateCreated,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = NewGinEngine(logger)
	}
	discoverModules(&s.cfg, s.resolve, logger)
	return s
}

// OnStart resolves the listening address, builds the handler registry and
// starts the server, retrying auto-assigned ports on bind contention.
// Called exactly once by the hosting actor pool; a second call fails with
// ErrAlreadyStarted.
func (s *Supervisor) OnStart(ctx context.Context, ref actor.Ref) error {
	if s.state != StateCreated {
		return ErrAlreadyStarted
	}
	s.state = StateStarting
	s.supervisorAddr = ref.Address

	host := s.cfg.Host
	if host == "" {
		host = "0.0.0.0"
	}
	explicit := s.cfg.Port != 0
	registry := s.buildRegistry()

	port := s.cfg.Port
	for attempt := 1; ; attempt++ {
		if !explicit {
			p, err := s.nextPort()
			if err != nil {
				s.state = StateStopped
				return &StartError{Host: host, Port: port, Err: fmt.Errorf("allocate port: %w", err)}
			}
			port = p
		}

		err := s.engine.Start(host, port, registry)
		if err == nil {
			s.addr = &Address{Host: host, Port: port}
			s.state = StateRunning
			s.logger.Info("Web console started",
				zap.String("host", host),
				zap.Int("port", port))
			return nil
		}

		if explicit || !IsBindError(err) {
			s.state = StateStopped
			return &StartError{Host: host, Port: port, ExplicitPort: explicit, Err: err}
		}
		if attempt >= maxBindRetries {
			s.state = StateStopped
			return &StartError{Host: host, Port: port, Err: fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, maxBindRetries, err)}
		}
		s.logger.Warn("Port already taken, retrying with a new one",
			zap.Int("port", port),
			zap.Int("attempt", attempt))
	}
}

// OnStop shuts the server down if it is running. Safe to call when the
// start transition never completed; it is a no-op then.
func (s *Supervisor) OnStop(ctx context.Context) error {
	if s.state != StateRunning {
		s.state = StateStopped
		return nil
	}
	s.state = StateStopping
	err := s.engine.Stop(ctx)
	s.state = StateStopped
	if err != nil {
		return fmt.Errorf("stop web server: %w", err)
	}
	s.logger.Info("Web console stopped")
	return nil
}

// WebAddress returns the advertised console address. On Windows-like
// hosts the wildcard bind address is rewritten to loopback at query
// time, since 0.0.0.0 is not connectable there; the stored address keeps
// the true bind host.
func (s *Supervisor) WebAddress() string {
	if s.addr == nil {
		return ""
	}
	host := s.addr.Host
	if s.windowsLike {
		host = strings.ReplaceAll(host, "0.0.0.0", "127.0.0.1")
	}
	return fmt.Sprintf("http://%s:%d", host, s.addr.Port)
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	return s.state
}

// buildRegistry assembles the handler registry for this start: built-in
// console handlers first, then configured plain handlers (config wins on
// conflict), then app handlers, plus the static asset handler. All
// factories are bound to the supervisor actor address.
func (s *Supervisor) buildRegistry() Registry {
	registry := make(Registry)
	for pattern, factory := range builtinHandlers() {
		registry[pattern] = factory(s.supervisorAddr)
	}
	for pattern, factory := range s.cfg.Handlers {
		registry[pattern] = factory(s.supervisorAddr)
	}
	for pattern, factory := range s.cfg.Apps {
		registry[pattern] = factory(s.supervisorAddr)
	}
	registry[StaticPattern] = NewStaticHandler(s.cfg.StaticDir, s.engineStaticRoot)
	return registry
}
