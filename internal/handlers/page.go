package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wrtgvr/rimdash-connect/internal/domain"
	"github.com/wrtgvr/rimdash-connect/internal/form"
	"github.com/wrtgvr/rimdash-connect/internal/tips"
)

//go:embed templates/form.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/form.html"))

type pageData struct {
	State      form.State
	DefaultURL string
	ActiveURL  string
	Status     *domain.EndpointStatus
	Presets    []domain.Preset
	Guide      []string
	Tip        string
}

// GET /
func (h *HTTPHandler) FormPage(w http.ResponseWriter, r *http.Request) {
	data := &pageData{
		State:      h.form.State(),
		DefaultURL: domain.DefaultURL,
		ActiveURL:  h.activeURL(),
		Status:     h.lastStatus(),
		Presets:    domain.Presets(),
		Guide:      tips.Guide(),
		Tip:        h.tip(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.page.Execute(w, data); err != nil {
		h.logger.Warn("failed to render form", "err", err)
	}
}

// POST /connect
func (h *HTTPHandler) FormConnect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	h.form.InputChange(r.PostForm.Get("url"))
	// failures are rendered inline from the form state
	h.form.Submit(h.requestContext(r))

	h.redirectToForm(w, r)
}

// POST /default
func (h *HTTPHandler) FormDefault(w http.ResponseWriter, r *http.Request) {
	h.form.UseDefault(h.requestContext(r))
	h.redirectToForm(w, r)
}

// POST /preset/{name}
func (h *HTTPHandler) FormPreset(w http.ResponseWriter, r *http.Request) {
	if err := h.form.QuickConnect(chi.URLParam(r, "name")); err != nil {
		http.NotFound(w, r)
		return
	}
	h.redirectToForm(w, r)
}

func (h *HTTPHandler) redirectToForm(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
