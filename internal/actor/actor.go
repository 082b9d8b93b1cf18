// Package actor provides the in-process actor pool that hosts the
// supervisor's managed services. Actors are plain values with explicit
// lifecycle hooks; the pool invokes OnStart exactly once at creation and
// OnStop exactly once at destruction, and serializes lifecycle
// transitions so no actor sees concurrent hook calls.
package actor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrActorExists is returned when creating an actor under a UID that
	// is already registered.
	ErrActorExists = errors.New("actor already exists")

	// ErrActorNotFound is returned when destroying or addressing an
	// unknown actor.
	ErrActorNotFound = errors.New("actor not found")
)

// Ref addresses a created actor.
type Ref struct {
	UID     string
	Address string
}

// Actor is a runtime-managed unit with lifecycle hooks. OnStart failure
// aborts creation; the actor is never registered in that case.
type Actor interface {
	OnStart(ctx context.Context, ref Ref) error
	OnStop(ctx context.Context) error
}

// Pool hosts actors at a single address.
type Pool struct {
	address string
	logger  *zap.Logger

	mu     sync.Mutex
	actors map[string]Actor
}

// NewPool creates an actor pool advertising the given address.
func NewPool(address string, logger *zap.Logger) *Pool {
	return &Pool{
		address: address,
		logger:  logger,
		actors:  make(map[string]Actor),
	}
}

// Address returns the pool's advertised address.
func (p *Pool) Address() string {
	return p.address
}

// Create registers a and runs its OnStart hook. An empty uid gets a
// random one. If OnStart fails the actor is not registered and the error
// propagates to the caller.
func (p *Pool) Create(ctx context.Context, uid string, a Actor) (Ref, error) {
	if uid == "" {
		uid = uuid.NewString()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.actors[uid]; ok {
		return Ref{}, fmt.Errorf("create actor %q: %w", uid, ErrActorExists)
	}

	ref := Ref{UID: uid, Address: p.address}
	if err := a.OnStart(ctx, ref); err != nil {
		return Ref{}, fmt.Errorf("create actor %q: %w", uid, err)
	}
	p.actors[uid] = a
	p.logger.Debug("Actor created", zap.String("uid", uid))
	return ref, nil
}

// Destroy deregisters the actor and runs its OnStop hook.
func (p *Pool) Destroy(ctx context.Context, ref Ref) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, ok := p.actors[ref.UID]
	if !ok {
		return fmt.Errorf("destroy actor %q: %w", ref.UID, ErrActorNotFound)
	}
	delete(p.actors, ref.UID)
	if err := a.OnStop(ctx); err != nil {
		return fmt.Errorf("destroy actor %q: %w", ref.UID, err)
	}
	p.logger.Debug("Actor destroyed", zap.String("uid", ref.UID))
	return nil
}

// Ref returns the ref for a registered actor.
func (p *Pool) Ref(uid string) (Ref, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.actors[uid]; !ok {
		return Ref{}, false
	}
	return Ref{UID: uid, Address: p.address}, true
}
