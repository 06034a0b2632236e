// Package ops serves the operational endpoints (metrics and pprof) and
// the shared listen/shutdown loop used by every HTTP listener.
package ops

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"cholwatch/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds how long in-flight requests may take after a stop signal
const ShutdownTimeout = 10 * time.Second

// NewRouter exposes /metrics from gatherer and /debug/pprof
func NewRouter(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Mount("/debug", middleware.Profiler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// NewServer builds the ops listener on the given port
func NewServer(port string, gatherer prometheus.Gatherer) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           NewRouter(gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully.
// A clean shutdown returns nil.
func Serve(ctx context.Context, srv *http.Server, name string, logger *internal.Logger) error {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[%s] Listening on %s", name, srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("[%s] Listener failed: %v", name, err)
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	logger.Info("[%s] Shutting down", name)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("[%s] Shutdown failed: %v", name, err)
		return err
	}
	return nil
}
