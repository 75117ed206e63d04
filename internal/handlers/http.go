package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wrtgvr/rimdash-connect/internal/domain"
	"github.com/wrtgvr/rimdash-connect/internal/form"
	"github.com/wrtgvr/rimdash-connect/internal/slogctx"
	"github.com/wrtgvr/rimdash-connect/internal/tips"
)

// StatusSource streams liveness statuses of the active endpoint.
type StatusSource interface {
	Last() *domain.EndpointStatus
	Subscribe() (<-chan *domain.EndpointStatus, func())
}

type HTTPHandler struct {
	form      *form.Form
	monitor   StatusSource
	activeURL func() string
	logger    *slog.Logger
	page      *template.Template
	heartbeat time.Duration

	randMu sync.Mutex
	rand   *rand.Rand
}

type Options struct {
	Form      *form.Form
	Monitor   StatusSource
	ActiveURL func() string
	Logger    *slog.Logger
	// Rand picks tips. Defaults to a time-seeded source.
	Rand *rand.Rand
	// Heartbeat is the SSE keep-alive interval.
	Heartbeat time.Duration
}

func NewHTTPHandler(opts Options) *HTTPHandler {
	h := &HTTPHandler{
		form:      opts.Form,
		monitor:   opts.Monitor,
		activeURL: opts.ActiveURL,
		logger:    opts.Logger,
		page:      pageTemplate,
		heartbeat: opts.Heartbeat,
		rand:      opts.Rand,
	}
	if h.logger == nil {
		h.logger = discardLogger()
	}
	if h.activeURL == nil {
		h.activeURL = func() string { return "" }
	}
	if h.rand == nil {
		seed := uint64(time.Now().UnixNano())
		h.rand = rand.New(rand.NewPCG(seed, seed>>32))
	}
	if h.heartbeat <= 0 {
		h.heartbeat = 5 * time.Second
	}
	return h
}

// GET /api/connection
func (h *HTTPHandler) GetConnection(w http.ResponseWriter, r *http.Request) {
	h.encodeJSONResponse(w, h.connectionResponse(), http.StatusOK)
}

// PUT /api/connection/input
func (h *HTTPHandler) PutInput(w http.ResponseWriter, r *http.Request) {
	//* decode request
	var req InputRequest
	if err := h.decodeJSONRequestBody(w, r, &req); err != nil {
		return
	}

	h.form.InputChange(req.URL)

	//* http response
	h.encodeJSONResponse(w, h.connectionResponse(), http.StatusOK)
}

// POST /api/connection/submit
func (h *HTTPHandler) PostSubmit(w http.ResponseWriter, r *http.Request) {
	if err := h.form.Submit(h.requestContext(r)); err != nil {
		h.error(w, actionError(err))
		return
	}
	h.encodeJSONResponse(w, h.connectionResponse(), http.StatusOK)
}

// POST /api/connection/default
func (h *HTTPHandler) PostDefault(w http.ResponseWriter, r *http.Request) {
	if err := h.form.UseDefault(h.requestContext(r)); err != nil {
		h.error(w, actionError(err))
		return
	}
	h.encodeJSONResponse(w, h.connectionResponse(), http.StatusOK)
}

// POST /api/connection/presets/{name}
func (h *HTTPHandler) PostPreset(w http.ResponseWriter, r *http.Request) {
	if err := h.form.QuickConnect(chi.URLParam(r, "name")); err != nil {
		h.error(w, err)
		return
	}
	h.encodeJSONResponse(w, h.connectionResponse(), http.StatusOK)
}

// GET /api/presets
func (h *HTTPHandler) GetPresets(w http.ResponseWriter, r *http.Request) {
	h.encodeJSONResponse(w, &PresetsResponse{Presets: domain.Presets()}, http.StatusOK)
}

// GET /api/guide
func (h *HTTPHandler) GetGuide(w http.ResponseWriter, r *http.Request) {
	h.encodeJSONResponse(w, &GuideResponse{Steps: tips.Guide()}, http.StatusOK)
}

// GET /api/tip
func (h *HTTPHandler) GetTip(w http.ResponseWriter, r *http.Request) {
	h.encodeJSONResponse(w, &TipResponse{Tip: h.tip()}, http.StatusOK)
}

// GET /api/monitor-sse
func (h *HTTPHandler) MonitorSSE(w http.ResponseWriter, r *http.Request) {
	if h.monitor == nil {
		http.Error(w, "monitor disabled", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	statuses, unsubscribe := h.monitor.Subscribe()
	defer unsubscribe()

	rc := http.NewResponseController(w)
	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	// send the latest known status right away
	if last := h.monitor.Last(); last != nil {
		if err := h.writeStatusEvent(w, rc, last); err != nil {
			return
		}
	} else if err := writeEvent(w, rc, "heartbeat", "Heartbeat"); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case st, ok := <-statuses:
			if !ok {
				return
			}
			if err := h.writeStatusEvent(w, rc, st); err != nil {
				return
			}
		case <-heartbeat.C:
			if err := writeEvent(w, rc, "heartbeat", "Heartbeat"); err != nil {
				return
			}
		}
	}
}

func (h *HTTPHandler) writeStatusEvent(w http.ResponseWriter, rc *http.ResponseController, st *domain.EndpointStatus) error {
	b, err := json.Marshal(h.domainStatusToDTO(st))
	if err != nil {
		return err
	}
	return writeEvent(w, rc, "pingresult", string(b))
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return rc.Flush()
}

func (h *HTTPHandler) tip() string {
	h.randMu.Lock()
	defer h.randMu.Unlock()
	return tips.Pick(h.rand)
}

// Probes outlive a disconnected client; their result still lands in the form.
func (h *HTTPHandler) requestContext(r *http.Request) context.Context {
	ctx := context.WithoutCancel(r.Context())
	return slogctx.With(ctx, h.logger.With("remote", r.RemoteAddr))
}
