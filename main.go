package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/config"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/server"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/logger"
)

func main() {
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	// LOG_LEVEL: debug|info|warn|error|fatal, LOG_FORMAT: console|json
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	logger.Infof("config loaded: store=%s degrade_reads=%v keycloak=%v redis=%v minio=%v",
		cfg.Store.Backend, cfg.Store.DegradeReadsToEmpty, cfg.Keycloak.URL != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to initialize: %v", err)
	}
	defer app.Close(context.Background())

	if err := app.Run(ctx); err != nil {
		logger.Errorf("server failed: %v", err)
	}
}
