package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quasarlab/quasar/pkg/middleware"
)

// GinEngine is the production Engine. It binds the listener up front so
// address-in-use failures surface synchronously to the supervisor's
// retry loop, then serves in the background.
type GinEngine struct {
	logger *zap.Logger

	ln  net.Listener
	srv *http.Server
}

// NewGinEngine creates the gin-backed server engine.
func NewGinEngine(logger *zap.Logger) *GinEngine {
	return &GinEngine{logger: logger}
}

// Start binds host:port and serves the registry's handlers. A non-nil
// return means nothing is listening.
func (e *GinEngine) Start(host string, port int, registry Registry) error {
	router := e.buildRouter(registry)

	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	e.ln = ln
	e.srv = &http.Server{
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := e.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			e.logger.Error("Web server error", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts the server down, releasing the bound socket.
func (e *GinEngine) Stop(ctx context.Context) error {
	if e.srv == nil {
		return nil
	}
	return e.srv.Shutdown(ctx)
}

// buildRouter creates the router with common middleware and registers the
// registry's routes. The static handler is mounted as an intercept so it
// matches any request path containing a /static/ segment, whatever the
// route prefix.
func (e *GinEngine) buildRouter(registry Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(e.logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowWebSockets:  true,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if static, ok := registry[StaticPattern]; ok {
		router.Use(staticIntercept(static))
	}

	for pattern, handler := range registry {
		if pattern == StaticPattern {
			continue
		}
		router.Any(pattern, gin.WrapH(handler))
	}
	return router
}

// staticIntercept routes any request whose path contains a /static/
// segment to the static handler before route matching.
func staticIntercept(static http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.Request.URL.Path, "/static/") {
			c.Next()
			return
		}
		static.ServeHTTP(c.Writer, c.Request)
		c.Abort()
	}
}
