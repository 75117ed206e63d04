package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrtgvr/rimdash-connect/internal/domain"
	errs "github.com/wrtgvr/rimdash-connect/internal/errors"
	"github.com/wrtgvr/rimdash-connect/internal/form"
	"github.com/wrtgvr/rimdash-connect/internal/handlers"
	"github.com/wrtgvr/rimdash-connect/internal/probe"
	"github.com/wrtgvr/rimdash-connect/internal/storage"
	"github.com/wrtgvr/rimdash-connect/internal/tips"
)

type fakeMonitor struct {
	last *domain.EndpointStatus
	ch   chan *domain.EndpointStatus
}

func (m *fakeMonitor) Last() *domain.EndpointStatus { return m.last }

func (m *fakeMonitor) Subscribe() (<-chan *domain.EndpointStatus, func()) {
	return m.ch, func() {}
}

type testServer struct {
	router  *chi.Mux
	kv      storage.KVStorage
	active  atomic.Pointer[string]
	monitor *fakeMonitor
	// game answers liveness probes with gameStatus
	game       *httptest.Server
	gameStatus atomic.Int32
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, probe.NewHTTPProber(time.Second), storage.NewMemoryStorage())
}

func newTestServerWith(t *testing.T, prober probe.Prober, kv storage.KVStorage) *testServer {
	t.Helper()

	ts := &testServer{
		kv:      kv,
		monitor: &fakeMonitor{ch: make(chan *domain.EndpointStatus, 1)},
	}
	ts.gameStatus.Store(http.StatusOK)
	ts.game = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(ts.gameStatus.Load()))
	}))
	t.Cleanup(ts.game.Close)

	empty := ""
	ts.active.Store(&empty)

	f := form.New("", form.Deps{
		Prober:  prober,
		Storage: ts.kv,
		OnURLChange: func(_ context.Context, url string) {
			ts.active.Store(&url)
		},
	})

	h := handlers.NewHTTPHandler(handlers.Options{
		Form:      f,
		Monitor:   ts.monitor,
		ActiveURL: func() string { return *ts.active.Load() },
		Rand:      rand.New(rand.NewPCG(1, 2)),
		Heartbeat: 10 * time.Millisecond,
	})

	ts.router = chi.NewMux()
	RegisterRoutes(ts.router, h)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/metrics", "").Code)
}

func TestSubmitNotAURL(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/connection/input", `{"url":"not a url"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/connection/submit", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[handlers.ErrorResponse](t, rec)
	assert.Equal(t, errs.TypeMalformedURL, resp.Type)
	assert.Equal(t, errs.ConnectionFailedMsg, resp.Error)

	conn := decode[handlers.ConnectionResponse](t, ts.do(t, http.MethodGet, "/api/connection", ""))
	assert.False(t, conn.IsValid)
	assert.Equal(t, errs.ConnectionFailedMsg, conn.Error)

	_, err := ts.kv.Get(context.Background(), domain.StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSubmitReachableEndpoint(t *testing.T) {
	ts := newTestServer(t)
	target := ts.game.URL + "/api/v1"

	ts.do(t, http.MethodPut, "/api/connection/input", `{"url":"`+target+`"}`)
	rec := ts.do(t, http.MethodPost, "/api/connection/submit", "")
	require.Equal(t, http.StatusOK, rec.Code)

	conn := decode[handlers.ConnectionResponse](t, rec)
	assert.True(t, conn.IsValid)
	assert.Equal(t, target, conn.ActiveURL)

	v, err := ts.kv.Get(context.Background(), domain.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, target, v)
}

func TestSubmitUnreachableEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.gameStatus.Store(http.StatusInternalServerError)

	ts.do(t, http.MethodPut, "/api/connection/input", `{"url":"`+ts.game.URL+`"}`)
	rec := ts.do(t, http.MethodPost, "/api/connection/submit", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, errs.TypeUnreachable, decode[handlers.ErrorResponse](t, rec).Type)
	assert.Empty(t, *ts.active.Load())
}

// gatedChecker holds every check until the test releases it.
type gatedChecker struct {
	calls atomic.Int32
	gate  chan error
}

func (p *gatedChecker) Probe(_ context.Context, url string) (*domain.EndpointStatus, error) {
	p.calls.Add(1)
	err := <-p.gate
	return &domain.EndpointStatus{URL: url, OK: err == nil}, err
}

type failingStorage struct {
	storage.KVStorage
}

func (failingStorage) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestSubmitSupersededReturnsConflict(t *testing.T) {
	checker := &gatedChecker{gate: make(chan error)}
	ts := newTestServerWith(t, checker, storage.NewMemoryStorage())

	ts.do(t, http.MethodPut, "/api/connection/input", `{"url":"http://first.test"}`)
	first := make(chan *httptest.ResponseRecorder)
	go func() { first <- ts.do(t, http.MethodPost, "/api/connection/submit", "") }()
	require.Eventually(t, func() bool { return checker.calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	ts.do(t, http.MethodPut, "/api/connection/input", `{"url":"http://second.test"}`)
	second := make(chan *httptest.ResponseRecorder)
	go func() { second <- ts.do(t, http.MethodPost, "/api/connection/submit", "") }()
	require.Eventually(t, func() bool { return checker.calls.Load() == 2 }, 2*time.Second, 5*time.Millisecond)

	checker.gate <- nil
	checker.gate <- nil

	stale := <-first
	assert.Equal(t, http.StatusConflict, stale.Code)
	assert.Equal(t, errs.TypeConflict, decode[handlers.ErrorResponse](t, stale).Type)

	fresh := <-second
	require.Equal(t, http.StatusOK, fresh.Code)
	assert.Equal(t, "http://second.test", decode[handlers.ConnectionResponse](t, fresh).ActiveURL)

	v, err := ts.kv.Get(context.Background(), domain.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "http://second.test", v)
}

func TestSubmitPersistFailureReturnsInternalError(t *testing.T) {
	ts := newTestServerWith(t, probe.NewHTTPProber(time.Second), failingStorage{storage.NewMemoryStorage()})
	target := ts.game.URL + "/api/v1"

	ts.do(t, http.MethodPut, "/api/connection/input", `{"url":"`+target+`"}`)
	rec := ts.do(t, http.MethodPost, "/api/connection/submit", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decode[handlers.ErrorResponse](t, rec)
	assert.Equal(t, errs.TypeInternal, resp.Type)
	assert.Equal(t, "internal server error", resp.Error)
	// the owner was still told about the new address
	assert.Equal(t, target, *ts.active.Load())
}

func TestPutInputBadBody(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPut, "/api/connection/input", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresetsRoutes(t *testing.T) {
	ts := newTestServer(t)

	presets := decode[handlers.PresetsResponse](t, ts.do(t, http.MethodGet, "/api/presets", ""))
	require.Len(t, presets.Presets, 2)

	rec := ts.do(t, http.MethodPost, "/api/connection/presets/loopback", "")
	require.Equal(t, http.StatusOK, rec.Code)
	conn := decode[handlers.ConnectionResponse](t, rec)
	assert.Equal(t, "http://127.0.0.1:8765/api/v1", conn.CandidateURL)
	assert.Empty(t, conn.ActiveURL)

	rec = ts.do(t, http.MethodPost, "/api/connection/presets/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGuideAndTip(t *testing.T) {
	ts := newTestServer(t)

	guide := decode[handlers.GuideResponse](t, ts.do(t, http.MethodGet, "/api/guide", ""))
	assert.Equal(t, tips.Guide(), guide.Steps)

	tip := decode[handlers.TipResponse](t, ts.do(t, http.MethodGet, "/api/tip", ""))
	assert.Contains(t, tips.All(), tip.Tip)
}

func TestHTMLFormFlow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `action="/connect"`)
	assert.Contains(t, body, `action="/preset/local"`)
	assert.Contains(t, body, "Use Default")

	form := url.Values{"url": {"ftp://example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/connect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = ts.do(t, http.MethodGet, "/", "")
	assert.Contains(t, rec.Body.String(), `role="alert"`)
	assert.Contains(t, rec.Body.String(), "ftp://example.com")

	rec = ts.do(t, http.MethodPost, "/preset/local", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	rec = ts.do(t, http.MethodGet, "/", "")
	assert.NotContains(t, rec.Body.String(), `role="alert"`)
	assert.Contains(t, rec.Body.String(), `value="http://localhost:8765/api/v1"`)
}

func TestMonitorSSE(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/monitor-sse", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	ts.monitor.ch <- &domain.EndpointStatus{ID: "p1", URL: "http://game.test", OK: true, StatusCode: 200}

	scanner := bufio.NewScanner(resp.Body)
	var sawPing bool
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: {") {
			var st handlers.StatusResponse
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &st))
			assert.Equal(t, "p1", st.ID)
			assert.True(t, st.OK)
			sawPing = true
			break
		}
	}
	assert.True(t, sawPing)
}
