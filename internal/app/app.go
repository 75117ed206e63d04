package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/wrtgvr/rimdash-connect/api"
	"github.com/wrtgvr/rimdash-connect/internal/config"
	"github.com/wrtgvr/rimdash-connect/internal/domain"
	"github.com/wrtgvr/rimdash-connect/internal/form"
	"github.com/wrtgvr/rimdash-connect/internal/handlers"
	"github.com/wrtgvr/rimdash-connect/internal/monitor"
	"github.com/wrtgvr/rimdash-connect/internal/probe"
	"github.com/wrtgvr/rimdash-connect/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// App owns the active endpoint URL and wires the form, storage, monitor and
// HTTP surface around it.
type App struct {
	router  *chi.Mux
	storage storage.KVStorage
	form    *form.Form
	monitor *monitor.Monitor
	logger  *slog.Logger

	active atomic.Pointer[string]
}

func InitApp(ctx context.Context, v *viper.Viper, logger *slog.Logger) (*App, error) {
	//* storage
	storageCfg := config.GetStorageConfig(v)
	kv, err := storage.Open(ctx, storageCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a, err := newApp(ctx, kv, probe.NewHTTPProber(config.GetProbeConfig(v).Timeout), config.GetMonitorConfig(v), logger)
	if err != nil {
		storage.Close(kv)
		return nil, err
	}
	return a, nil
}

func newApp(ctx context.Context, kv storage.KVStorage, prober probe.Prober, monitorCfg *config.MonitorConfig, logger *slog.Logger) (*App, error) {
	a := &App{
		storage: kv,
		logger:  logger,
	}

	//* current endpoint
	current, err := kv.Get(ctx, domain.StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		current = domain.DefaultURL
	case err != nil:
		return nil, fmt.Errorf("failed to load stored endpoint: %w", err)
	}
	a.active.Store(&current)

	//* monitor
	a.monitor = monitor.NewMonitor(prober, a.ActiveURL, monitorCfg, logger.With("component", "monitor"))

	//* form
	a.form = form.New(current, form.Deps{
		Prober:      probe.Logged(prober, logger.With("component", "form")),
		Storage:     kv,
		OnURLChange: a.setActiveURL,
		Logger:      logger.With("component", "form"),
	})

	//* transport
	h := handlers.NewHTTPHandler(handlers.Options{
		Form:      a.form,
		Monitor:   a.monitor,
		ActiveURL: a.ActiveURL,
		Logger:    logger.With("component", "http"),
	})
	a.router = chi.NewMux()
	api.RegisterRoutes(a.router, h)

	return a, nil
}

// ActiveURL returns the committed endpoint.
func (a *App) ActiveURL() string {
	return *a.active.Load()
}

func (a *App) setActiveURL(ctx context.Context, url string) {
	old := a.active.Swap(&url)
	a.logger.Info("active endpoint changed", "old", *old, "new", url)
	a.monitor.Trigger()
}

// Stored returns the persisted endpoint and when it was written. The time is
// zero when the backend does not record it.
func (a *App) Stored(ctx context.Context) (string, time.Time, error) {
	url, err := a.storage.Get(ctx, domain.StorageKey)
	if err != nil {
		return "", time.Time{}, err
	}
	ts, ok := a.storage.(storage.Timestamped)
	if !ok {
		return url, time.Time{}, nil
	}
	at, err := ts.UpdatedAt(ctx, domain.StorageKey)
	if err != nil {
		return url, time.Time{}, nil
	}
	return url, at, nil
}

func (a *App) Form() *form.Form {
	return a.form
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves HTTP on addr and monitors the active endpoint until ctx is
// cancelled.
func (a *App) Run(ctx context.Context, addr string) error {
	errg, ctx := errgroup.WithContext(ctx)

	errg.Go(func() error {
		a.logger.Info("starting endpoint monitor", "url", a.ActiveURL())
		return a.monitor.Run(ctx)
	})

	errg.Go(func() error {
		srv := &http.Server{
			Addr:              addr,
			Handler:           a.router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		a.logger.Info("starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("failed to start HTTP server", "addr", addr, "err", err)
			return err
		}
		return nil
	})

	return errg.Wait()
}

func (a *App) Close() error {
	return a.storage.Close()
}
