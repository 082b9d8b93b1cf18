package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/quasarlab/quasar/internal/actor"
	_ "github.com/quasarlab/quasar/internal/console/profiler" // registers the profiler console module
	"github.com/quasarlab/quasar/internal/web"
	"github.com/quasarlab/quasar/pkg/config"
	"github.com/quasarlab/quasar/pkg/logging"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	version    = "dev"
	buildTime  = "unknown"
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Quasar web supervisor",
		zap.String("version", version),
		zap.String("build_time", buildTime),
	)

	pool := actor.NewPool(cfg.Web.SupervisorAddr, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ref, err := web.StartService(ctx, pool, web.Config{
		Host:          cfg.Web.Host,
		Port:          cfg.Web.Port,
		StaticDir:     cfg.Web.StaticDir,
		PluginModules: cfg.Web.PluginModules,
	}, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to start web console", zap.Error(err))
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := web.StopService(ctx, pool, ref); err != nil {
		logger.Error("Web console forced to shutdown", zap.Error(err))
	}

	logger.Info("Supervisor exited")
}
