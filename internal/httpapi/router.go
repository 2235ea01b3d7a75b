package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"factory/internal/config"
	"factory/internal/httpapi/handlers"
	"factory/internal/httpkit"
	"factory/internal/pipeline"
	"factory/internal/pkg/logger"
	"factory/internal/pkg/middleware"
	"factory/internal/ports"
)

type Deps struct {
	Cfg        config.Config
	Store      ports.RowStore
	Dispatcher *pipeline.Dispatcher
	Log        *logger.Logger
	Version    string
}

func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logger.NewDefault()
	}

	r := chi.NewRouter()

	// ---- CORS (manual trigger tools + future dashboard) ----
	allowedOrigins := d.Cfg.CORSAllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{
			"http://localhost:8081",
			"http://localhost:5173",
		}
	}
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAgeSeconds:    600,
	}))

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(d.Log))
	r.Use(middleware.Recovery(d.Log))

	h := handlers.New(handlers.Deps{
		Store:       d.Store,
		Dispatcher:  d.Dispatcher,
		Log:         d.Log,
		ServiceName: d.Cfg.ServiceName,
		Version:     d.Version,
	})

	// ---- HEALTH ----
	r.Get("/health", h.Health)

	// ---- PROCESSING ----
	r.Post("/process", h.PostProcess)
	r.Post("/process-all", h.PostProcessAll)

	// ---- RECORDS ----
	r.Get("/records/{recordID}", h.GetRecord)

	return r
}
