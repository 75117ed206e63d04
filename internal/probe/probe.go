package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wrtgvr/rimdash-connect/internal/domain"
	"github.com/wrtgvr/rimdash-connect/internal/slogctx"
)

// Prober checks whether a telemetry API is reachable.
type Prober interface {
	Probe(ctx context.Context, baseURL string) (*domain.EndpointStatus, error)
}

// HTTPProber issues a single GET against the liveness path of the API.
type HTTPProber struct {
	client *http.Client
	now    func() time.Time
}

// NewHTTPProber creates a prober. A zero timeout leaves the transport
// default in place.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// NewHTTPProberWithClient creates a prober using client.
func NewHTTPProberWithClient(client *http.Client) *HTTPProber {
	return &HTTPProber{client: client, now: time.Now}
}

// Probe returns the probe status. The error is non-nil when the endpoint is
// not reachable or answered with a non-2xx status.
func (p *HTTPProber) Probe(ctx context.Context, baseURL string) (status *domain.EndpointStatus, err error) {
	checkedAt := p.now()
	status = &domain.EndpointStatus{
		ID:        uuid.NewString(),
		URL:       baseURL,
		CheckedAt: checkedAt,
	}
	logger := slogctx.From(ctx).With("probe_id", status.ID, "url", baseURL)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe panicked: %v", r)
		}
		status.Latency = time.Since(checkedAt)
		if err != nil {
			status.OK = false
			status.Error = err.Error()
		}
		observe(status)
		logger.Debug("probe finished", "ok", status.OK, "status_code", status.StatusCode, "latency", status.Latency)
	}()

	target, err := LivenessURL(baseURL, checkedAt)
	if err != nil {
		return status, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return status, fmt.Errorf("failed to build probe request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		return status, fmt.Errorf("probe request failed: %w", err)
	}
	defer resp.Body.Close()
	// payload is not inspected
	io.Copy(io.Discard, resp.Body)

	status.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return status, fmt.Errorf("probe got non-success status %d", resp.StatusCode)
	}

	status.OK = true
	return status, nil
}

// LivenessURL builds <base>/game/state?_=<unix ms> for baseURL.
func LivenessURL(baseURL string, at time.Time) (string, error) {
	u, err := domain.ParseEndpointURL(baseURL)
	if err != nil {
		return "", err
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + domain.ProbePath
	u.RawPath = ""

	q := u.Query()
	q.Set("_", strconv.FormatInt(at.UnixMilli(), 10))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Alive reports whether p considers baseURL reachable.
func Alive(ctx context.Context, p Prober, baseURL string) bool {
	_, err := p.Probe(ctx, baseURL)
	if err != nil {
		slogctx.From(ctx).Debug("endpoint not alive", "url", baseURL, "err", err)
		return false
	}
	return true
}

// Logged wraps p so every failure is logged at warn level on logger.
func Logged(p Prober, logger *slog.Logger) Prober {
	return loggedProber{p: p, logger: logger}
}

type loggedProber struct {
	p      Prober
	logger *slog.Logger
}

func (l loggedProber) Probe(ctx context.Context, baseURL string) (*domain.EndpointStatus, error) {
	status, err := l.p.Probe(ctx, baseURL)
	if err != nil {
		l.logger.Warn("endpoint probe failed", "url", baseURL, "err", err)
	}
	return status, err
}
