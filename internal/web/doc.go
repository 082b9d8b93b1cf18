// Package web runs the supervisor's embedded web console as a managed
// actor.
//
// Architecture:
//   - Supervisor: owns the lifecycle state machine — address resolution,
//     handler registry assembly, the bind/retry loop, graceful shutdown
//   - Engine: the HTTP server capability (gin in production, fakes in
//     tests); Start reports bind failures synchronously
//   - Module: plugins contribute handler and app registrations, resolved
//     by name at construction time; missing modules are skipped
//   - StaticHandler: serves .../static/ paths, routing engine-bundled
//     assets to the engine's own static root
//
// Port acquisition: with no configured port, the supervisor draws a
// candidate from the injected allocator before every bind attempt and
// retries address-in-use failures up to five times. A configured port is
// authoritative — bind failure on it is immediately fatal.
package web
