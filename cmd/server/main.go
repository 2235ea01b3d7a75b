package main

import (
	"context"
	"net/http"
	"time"

	"factory/internal/config"
	"factory/internal/httpapi"
	"factory/internal/pipeline"
	"factory/internal/pkg/logger"
	"factory/internal/pkg/shutdown"
	"factory/internal/render"
	"factory/internal/rowstore"
	"factory/internal/storage"
)

const version = "0.1.0"

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:       config.Env("LOG_LEVEL", "info"),
		Format:      config.Env("LOG_FORMAT", "json"),
		ServiceName: cfg.ServiceName,
		AddSource:   config.Env("LOG_SOURCE", "false") == "true",
	})

	log.Info("starting server",
		"version", version,
		"row_store", cfg.RowStoreProvider,
		"storage", cfg.StorageProvider,
		"renderer", cfg.RendererProvider,
	)

	ctx := context.Background()
	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	// A failed provider leaves the server in degraded mode: /health still
	// answers (deep checks report the failure) while the processing
	// endpoints return errors until the configuration is fixed.
	store, err := rowstore.NewStore(ctx, cfg)
	if err != nil {
		log.Error("row store unavailable, starting degraded", "error", err.Error())
	} else {
		log.Info("row store ready", "name", store.Name())
	}

	renderer, err := render.NewRenderer(cfg)
	if err != nil {
		log.Error("renderer unavailable, starting degraded", "error", err.Error())
	} else {
		log.Info("renderer ready", "provider", renderer.Provider())
	}

	uploader, err := storage.NewUploader(ctx, cfg)
	if err != nil {
		log.Error("uploader unavailable, starting degraded", "error", err.Error())
	} else {
		log.Info("uploader ready", "provider", uploader.Provider())
	}

	var dispatcher *pipeline.Dispatcher
	if store != nil && renderer != nil && uploader != nil {
		proc := pipeline.New(pipeline.Deps{
			Store:    store,
			Renderer: renderer,
			Uploader: uploader,
			TempDir:  cfg.TempDir,
			Log:      log,
		})
		dispatcher = pipeline.NewDispatcher(proc, cfg.DispatchWorkers, cfg.DispatchQueueSize, log)
		dispatcher.Start(ctx)
		shutdownMgr.Register("dispatcher", dispatcher.Stop)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Cfg:        cfg,
		Store:      store,
		Dispatcher: dispatcher,
		Log:        log,
		Version:    version,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Registered after the dispatcher so LIFO shutdown closes intake
	// first, then drains the queued work.
	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	shutdownMgr.Wait()
}
