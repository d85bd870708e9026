// Package server implements the photo enhancement web service.
package server

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"time"

	"github.com/fiorix/go-web/autogzip"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/unrolled/secure"
	"github.com/vearutop/photoenhance/internal/config"
	"github.com/vearutop/photoenhance/internal/logging"
	"github.com/vearutop/photoenhance/internal/metrics"
	"github.com/vearutop/photoenhance/internal/store"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

//go:embed static
var static embed.FS

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	resultPreviewSize = 320
	maxPreviewSize    = 512
)

// Server serves the UI and the enhancement API.
type Server struct {
	cfg     config.Config
	log     logging.Logger
	metrics *metrics.Metrics
	results *store.Results
	limiter *rate.Limiter
	handler http.Handler
}

// New creates a server, cfg should be validated.
func New(cfg config.Config, log logging.Logger, m *metrics.Metrics) (*Server, error) {
	results, err := store.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	s := &Server{
		cfg:     cfg,
		log:     log,
		metrics: m,
		results: results,
		limiter: rate.NewLimiter(limit, cfg.RateBurst),
	}
	s.handler = s.routes()

	return s, nil
}

func (s *Server) routes() http.Handler {
	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		STSSeconds:            31536000,
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data: blob:; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'",
		IsDevelopment:         s.cfg.Local,
	})
	crs := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		ExposedHeaders: []string{"Content-Disposition"},
	})

	r := chi.NewRouter()
	r.Use(s.logRequests, sec.Handler)

	r.With(gzipped).Get("/", s.index)
	r.Get("/healthz", s.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Use(crs.Handler)

		r.With(gzipped).Get("/presets", s.presets)
		r.Get("/results/{id}", s.download)
		r.Get("/results/{id}/preview", s.resultPreview)

		r.Group(func(r chi.Router) {
			r.Use(s.limitRate, s.limitBody)

			r.Post("/enhance", s.enhance)
			r.With(gzipped).Post("/preview", s.preview)
		})
	})

	return r
}

// gzipped compresses responses for clients that accept gzip.
func gzipped(h http.Handler) http.Handler {
	return autogzip.Handle(h)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP and metrics until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	servers := []*http.Server{{
		Addr:              s.cfg.Listen,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}}
	if s.cfg.MetricsListen != "" && s.metrics != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.metrics.Handler())
		servers = append(servers, &http.Server{
			Addr:              s.cfg.MetricsListen,
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		})
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			s.log.Infof("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		s.log.Infof("server stopped")

		return errors.Join(errs...)
	})

	return g.Wait()
}
