// Command poems runs the API on the in-memory store for local development.
// SEED_FILE optionally names a YAML file of poems to load at startup.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/config"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/seed"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/server"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/logger"
)

func main() {
	defer logger.Sync()

	// force the memory backend before the config is read
	_ = os.Setenv("STORE_BACKEND", config.BackendMemory)
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to initialize: %v", err)
	}
	defer app.Close(context.Background())

	if path := os.Getenv("SEED_FILE"); path != "" {
		f, err := seed.Load(path)
		if err != nil {
			logger.Fatalf("failed to read seed file %s: %v", path, err)
		}
		n, err := seed.Apply(ctx, app.Poems, f)
		if err != nil {
			logger.Fatalf("seeding stopped after %d poems: %v", n, err)
		}
		logger.Infof("seeded %d poems from %s", n, path)
	}

	if err := app.Run(ctx); err != nil {
		logger.Errorf("server failed: %v", err)
	}
}
