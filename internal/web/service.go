package web

import (
	"context"

	"go.uber.org/zap"

	"github.com/quasarlab/quasar/internal/actor"
)

// ActorUID is the well-known UID of the web supervisor actor. One
// supervisor process hosts at most one console.
const ActorUID = "WebSupervisor"

// StartService creates the web supervisor actor in pool. The returned
// ref addresses the running console; creation fails if the server could
// not start.
func StartService(ctx context.Context, pool *actor.Pool, cfg Config, logger *zap.Logger, opts ...Option) (actor.Ref, error) {
	sup := NewSupervisor(cfg, logger, opts...)
	return pool.Create(ctx, ActorUID, sup)
}

// StopService destroys the web supervisor actor, shutting the console
// down.
func StopService(ctx context.Context, pool *actor.Pool, ref actor.Ref) error {
	return pool.Destroy(ctx, ref)
}
