// Package form implements the endpoint configuration form: it holds the
// candidate URL typed by the user, validates it, probes it and commits it.
//
// Every action that changes the candidate or starts a probe advances a
// generation counter. A probe result is only applied while its generation is
// still current, so the most recently started probe always wins and earlier
// ones are ignored when they settle.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/wrtgvr/rimdash-connect/internal/domain"
	errs "github.com/wrtgvr/rimdash-connect/internal/errors"
	"github.com/wrtgvr/rimdash-connect/internal/probe"
	"github.com/wrtgvr/rimdash-connect/internal/storage"
)

// ErrSuperseded is returned when a probe settled after a newer action
// replaced it. Its result was discarded.
var ErrSuperseded = errors.New("probe superseded by a newer action")

// URLChangeFunc receives a newly committed URL.
type URLChangeFunc func(ctx context.Context, url string)

// Deps are the collaborators of a Form.
type Deps struct {
	Prober      probe.Prober
	Storage     storage.KVStorage
	OnURLChange URLChangeFunc
	Logger      *slog.Logger
}

// State is a snapshot of the form.
type State struct {
	CandidateURL string `json:"candidate_url"`
	IsValid      bool   `json:"is_valid"`
	IsProbing    bool   `json:"is_probing"`
	// Error is the inline message shown while IsValid is false.
	Error string `json:"error,omitempty"`
	// Reason is the errs type of the last failure.
	Reason string `json:"reason,omitempty"`
}

type Form struct {
	deps Deps

	mu    sync.Mutex
	state State
	gen   uint64

	// commitMu serializes the owner callback and the storage write so an
	// older commit can never land after a newer one.
	commitMu sync.Mutex
}

// New creates a form showing currentURL.
func New(currentURL string, deps Deps) *Form {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.OnURLChange == nil {
		deps.OnURLChange = func(context.Context, string) {}
	}
	return &Form{
		deps: deps,
		state: State{
			CandidateURL: currentURL,
			IsValid:      true,
		},
	}
}

// State returns a copy of the current form state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// InputChange replaces the candidate URL and clears any shown error.
func (f *Form) InputChange(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gen++
	f.state = State{CandidateURL: url, IsValid: true}
}

// QuickConnect fills the input with a preset. Nothing is validated, probed
// or committed.
func (f *Form) QuickConnect(name string) error {
	p, ok := domain.LookupPreset(name)
	if !ok {
		return errs.NewNotFound(nil, fmt.Sprintf("unknown preset %q", name))
	}
	f.InputChange(p.URL)
	return nil
}

// Submit validates the candidate URL and, when it is well formed, probes and
// commits it.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	candidate := f.state.CandidateURL

	if _, err := domain.ParseEndpointURL(candidate); err != nil {
		var appErr *errs.AppError
		if errors.Is(err, domain.ErrUnsupportedScheme) {
			appErr = errs.NewUnsupportedScheme(err)
		} else {
			appErr = errs.NewMalformedURL(err)
		}
		f.gen++
		f.fail(appErr)
		f.mu.Unlock()

		f.deps.Logger.Debug("rejected endpoint url", "url", candidate, "reason", appErr.Type)
		return appErr
	}

	gen := f.startProbe()
	f.mu.Unlock()

	return f.probeAndCommit(ctx, gen, strings.TrimSpace(candidate))
}

// UseDefault fills the input with the default URL and probes and commits it.
func (f *Form) UseDefault(ctx context.Context) error {
	f.mu.Lock()
	f.state.CandidateURL = domain.DefaultURL
	gen := f.startProbe()
	f.mu.Unlock()

	return f.probeAndCommit(ctx, gen, domain.DefaultURL)
}

// startProbe must be called with mu held.
func (f *Form) startProbe() uint64 {
	f.gen++
	f.state.IsProbing = true
	return f.gen
}

// fail must be called with mu held.
func (f *Form) fail(appErr *errs.AppError) {
	f.state.IsValid = false
	f.state.IsProbing = false
	f.state.Error = appErr.Msg
	f.state.Reason = appErr.Type
}

func (f *Form) probeAndCommit(ctx context.Context, gen uint64, url string) error {
	logger := f.deps.Logger.With("url", url, "generation", gen)

	_, probeErr := f.deps.Prober.Probe(ctx, url)

	f.commitMu.Lock()
	defer f.commitMu.Unlock()

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		logger.Debug("discarding stale probe result", "err", probeErr)
		return ErrSuperseded
	}
	if probeErr != nil {
		appErr := errs.NewUnreachable(probeErr)
		f.fail(appErr)
		f.mu.Unlock()

		logger.Info("endpoint unreachable", "err", probeErr)
		return appErr
	}
	f.state = State{CandidateURL: f.state.CandidateURL, IsValid: true}
	f.mu.Unlock()

	f.deps.OnURLChange(ctx, url)
	logger.Info("endpoint committed")

	if err := f.deps.Storage.Set(ctx, domain.StorageKey, url); err != nil {
		logger.Error("failed to persist endpoint", "err", err)
		if _, ok := errs.As(err); ok {
			return err
		}
		return errs.NewInternalError(err)
	}
	return nil
}
