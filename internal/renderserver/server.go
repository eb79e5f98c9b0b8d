package renderserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

// NewRouter mounts the wire protocol. /health and /metrics sit outside the
// auth chain.
func NewRouter(h *Handlers, mw *Middleware) *chi.Mux {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", h.HealthHandler)
	r.Post("/pdf/start", mw.Wrap(h.StartHandler))
	r.Get("/pdf/status/{id}", mw.Wrap(h.StatusHandler))
	r.Get("/pdf/download/{id}", mw.Wrap(h.DownloadHandler))
	return r
}

type Server struct {
	http   *http.Server
	logger *logger_i.Logger
}

func NewServer(listenAddr string, handler http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:         listenAddr,
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: logger_i.NewLogger("Server"),
	}
}

func (s *Server) ListenAndServe() {
	s.logger.Info("Render service listening", "address", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server crashed", "err", err, "addr", s.http.Addr)
	}
}

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// HandleShutdown blocks for a termination signal, then drains the HTTP
// server and the worker pool within the shutdown deadline.
func (s *Server) HandleShutdown(params ShutdownParams) {
	sig := <-params.GracefulShutdown
	s.logger.Info("Shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.http.SetKeepAlivesEnabled(false)
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error("Could not shutdown gracefully", "err", err)
		}

		close(params.WorkerStop)
		params.Group.Wait()
		params.CloseServices()
		close(params.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Shutdown complete")
	case <-ctx.Done():
		s.logger.Info("Forcing shutdown")
		os.Exit(1)
	}
}
