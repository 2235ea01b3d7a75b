package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"factory/internal/config"
	"factory/internal/pipeline"
	"factory/internal/pkg/logger"
	"factory/internal/render"
	"factory/internal/rowstore"
	"factory/internal/storage"
)

// sweep is the cron entrypoint: one pass over the sheet, then exit.
// Row-level failures are written back to the sheet and do not fail the
// run; only setup errors and cancellation do.
func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:       config.Env("LOG_LEVEL", "info"),
		Format:      config.Env("LOG_FORMAT", "json"),
		ServiceName: config.Env("SERVICE_NAME", "factory-sweep"),
		AddSource:   config.Env("LOG_SOURCE", "false") == "true",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := rowstore.NewStore(ctx, cfg)
	if err != nil {
		log.LogFatal("row store setup failed", err)
	}
	renderer, err := render.NewRenderer(cfg)
	if err != nil {
		log.LogFatal("renderer setup failed", err)
	}
	uploader, err := storage.NewUploader(ctx, cfg)
	if err != nil {
		log.LogFatal("uploader setup failed", err)
	}

	proc := pipeline.New(pipeline.Deps{
		Store:    store,
		Renderer: renderer,
		Uploader: uploader,
		TempDir:  cfg.TempDir,
		Log:      log,
	})

	log.Info("sweep run starting",
		"row_store", store.Name(),
		"storage", uploader.Provider(),
		"renderer", renderer.Provider(),
	)

	start := time.Now()
	res, err := proc.Sweep(ctx)
	if err != nil {
		log.LogFatal("sweep aborted", err,
			"ready", res.Ready,
			"success", res.Success,
			"errors", res.Errors,
		)
	}

	log.Info("sweep run finished",
		"ready", res.Ready,
		"success", res.Success,
		"errors", res.Errors,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
