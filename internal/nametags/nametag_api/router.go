package nametag_api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ms-nametags/internal/auth"
	"ms-nametags/internal/config"
	"ms-nametags/internal/metrics"
)

// NewRouter wires every route. When auth is enabled the /api routes need a
// bearer token; /health and /metrics stay open.
func NewRouter(h *Handler, m *metrics.Metrics, authCfg config.AuthConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", m.Handler())

	r.Group(func(r chi.Router) {
		if authCfg.Enabled() {
			r.Use(auth.Middleware(authCfg.JWTSecret, h.Logger))
			h.Logger.Info("AUTH", "JWT middleware applied to /api routes")
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", h.GetState)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", h.ListEvents)
				r.Post("/", h.CreateEvent)
				r.Put("/{eventId}", h.RenameEvent)
				r.Post("/{eventId}/activate", h.ActivateEvent)
				r.Delete("/{eventId}", h.DeleteEvent)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", h.ListTags)
				r.Delete("/", h.ClearTags)
				r.Post("/import", h.ImportTags)
				r.Get("/export.csv", h.ExportRoster)
				r.Post("/select-all", h.SelectAll)
				r.Post("/deselect-all", h.DeselectAll)
				r.Put("/filter", h.SetFilter)
				r.Patch("/{tagId}", h.UpdateTag)
				r.Post("/{tagId}/toggle", h.ToggleTag)
			})

			r.Get("/sheets", h.ListSheets)
			r.Get("/sheets/pdf", h.ExportSheets)
		})
	})
	h.Logger.Info("ROUTER", "Nametag routes registered under /api")

	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.Logger.LogAPI(r.Method, r.URL.Path, strconv.Itoa(ww.Status()), time.Since(start).String())
	})
}
