package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wrtgvr/rimdash-connect/internal/handlers"
)

func RegisterRoutes(r chi.Router, h handlers.Handler) {
	r.Use(middleware.Recoverer)

	r.Get("/health", respond200)
	r.Handle("/metrics", promhttp.Handler())

	//* html form
	r.Get("/", h.FormPage)
	r.Post("/connect", h.FormConnect)
	r.Post("/default", h.FormDefault)
	r.Post("/preset/{name}", h.FormPreset)

	//* json api
	r.Route("/api", func(r chi.Router) {
		r.Get("/connection", h.GetConnection)
		r.Put("/connection/input", h.PutInput)
		r.Post("/connection/submit", h.PostSubmit)
		r.Post("/connection/default", h.PostDefault)
		r.Post("/connection/presets/{name}", h.PostPreset)
		r.Get("/presets", h.GetPresets)
		r.Get("/guide", h.GetGuide)
		r.Get("/tip", h.GetTip)
		r.Get("/monitor-sse", h.MonitorSSE)
	})
}

func respond200(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
