// Package server exposes a loaded dataset over HTTP.
//
// The dataset is fetched once at startup. If that fetch fails the server
// keeps running and every data endpoint answers 503 with a fixed message;
// there is no automatic retry.
//
// # Routes
//
//	GET /healthz
//	GET /api/data
//	GET /api/summary
//	GET /api/classes          ?q=&unused=&sort=&dir=
//	GET /api/classes/{id}
//	GET /api/methods          ?q=&unused=&sort=&dir=
//	GET /api/methods/{id}
//	GET /api/graph/{kind}     ?search=&highlight=&direction=&format=
//	GET /api/graph/{kind}.svg
//	GET /metrics
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/graphview"
	"github.com/matzehuels/codescope/pkg/pipeline"
)

// LoadFailedMessage is the only error text clients see when the dataset
// could not be loaded.
const LoadFailedMessage = "Failed to load code data. Please try again later."

// Options configures a Server.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Direction is the default graph direction.
	Direction graphview.Direction

	// Registry enables /metrics and the Prometheus hooks. Nil disables
	// metrics.
	Registry *prometheus.Registry
}

// Server serves one dataset.
type Server struct {
	opts    Options
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *Metrics

	mu      sync.RWMutex
	ds      *dataset.Dataset
	loadErr error
	loaded  bool
}

// New creates a server. A nil logger discards.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Direction == "" {
		opts.Direction = graphview.DefaultDirection
	}
	s := &Server{opts: opts, runner: runner, logger: logger}
	if opts.Registry != nil {
		s.metrics = NewMetrics(opts.Registry)
	}
	return s
}

// Metrics returns the server's metrics, or nil when disabled.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Load fetches the dataset once and records the outcome. A failure is
// logged and kept; later requests get 503. On success both graph kinds are
// laid out in the background.
func (s *Server) Load(ctx context.Context, src dataset.Source) error {
	ds, err := dataset.Load(ctx, src, s.logger)
	s.SetDataset(ds, err)
	if err != nil {
		s.logger.Error("failed to load code data", "source", src.String(), "err", err)
		return err
	}
	go func() {
		if err := s.Warm(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("warming graph layouts failed", "err", err)
		}
	}()
	return nil
}

// SetDataset records a load outcome directly.
func (s *Server) SetDataset(ds *dataset.Dataset, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds, s.loadErr, s.loaded = ds, err, true
	if err != nil {
		s.ds = nil
	}
}

// Warm computes the positioned class and method graphs concurrently so the
// first graph request does not pay for layout.
func (s *Server) Warm(ctx context.Context) error {
	ds, err := s.dataset()
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range []dataset.Kind{dataset.KindClass, dataset.KindMethod} {
		g.Go(func() error {
			_, err := s.runner.Projector.Graph(ctx, ds, kind, s.opts.Direction)
			return err
		})
	}
	return g.Wait()
}

var (
	errNotLoaded = errors.New("code data not loaded yet")
)

func (s *Server) dataset() (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case !s.loaded:
		return nil, errNotLoaded
	case s.loadErr != nil:
		return nil, s.loadErr
	}
	return s.ds, nil
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))
		r.Get("/data", s.handleData)
		r.Get("/summary", s.handleSummary)
		r.Get("/classes", s.handleClasses)
		r.Get("/classes/{id}", s.handleClass)
		r.Get("/methods", s.handleMethods)
		r.Get("/methods/{id}", s.handleMethod)
		r.Get("/graph/{kind}", s.handleGraph)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
