package domain

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultURL is the base address of a locally running game API.
	DefaultURL = "http://localhost:8765/api/v1"
	// StorageKey is the key the committed URL is persisted under.
	StorageKey = "rimworldApiUrl"
	// ProbePath is appended to the base URL for liveness checks.
	ProbePath = "/game/state"
)

var (
	ErrMalformedURL      = errors.New("url is malformed")
	ErrUnsupportedScheme = errors.New("url scheme must be http or https")
)

// EndpointConfig is the base URL of the remote telemetry API.
type EndpointConfig struct {
	URL string
}

// EndpointStatus is the outcome of a single liveness probe.
type EndpointStatus struct {
	ID         string        `json:"id"`
	URL        string        `json:"url"`
	OK         bool          `json:"ok"`
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency"`
	Error      string        `json:"error,omitempty"`
	CheckedAt  time.Time     `json:"checked_at"`
}

// Validate checks that the URL is absolute and uses http or https.
func (c EndpointConfig) Validate() error {
	_, err := ParseEndpointURL(c.URL)
	return err
}

// ParseEndpointURL parses raw as an absolute URL. A string without a scheme
// or host is malformed; any scheme other than http/https is unsupported.
func ParseEndpointURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.Join(ErrMalformedURL, err)
	}
	if u.Scheme == "" {
		return nil, ErrMalformedURL
	}
	if !isHTTPScheme(u.Scheme) {
		return nil, ErrUnsupportedScheme
	}
	if u.Host == "" || u.Hostname() == "" {
		return nil, ErrMalformedURL
	}
	return u, nil
}

func isHTTPScheme(scheme string) bool {
	// url.Parse lowercases the scheme.
	return scheme == "http" || scheme == "https"
}
