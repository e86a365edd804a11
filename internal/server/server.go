// Package server implements the layerviz HTTP render service.
//
// The service exposes a small JSON API:
//
//	POST /api/render        render a model, returns the artifact bytes
//	GET  /api/renders       list archived renders (metadata only)
//	GET  /api/renders/{id}  fetch one archived render's artifact
//	GET  /healthz           liveness probe
//
// Rendered artifacts pass through the shared pipeline cache; each
// successful render is archived in the configured store.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/layerviz/layerviz/pkg/cache"
	"github.com/layerviz/layerviz/pkg/pipeline"
	"github.com/layerviz/layerviz/pkg/store"
)

// Server wires the router, pipeline runner, and render archive.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New builds a server from config, connecting the configured cache and
// archive backends.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	var c cache.Cache
	var err error
	switch cfg.CacheBackend {
	case "file":
		c, err = cache.NewFileCache(cfg.CacheDir)
	case "redis":
		c, err = cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		c = cache.NewNullCache()
	}
	if err != nil {
		return nil, err
	}

	var archive store.Store
	if cfg.Mongo.URI != "" {
		archive, err = store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			_ = c.Close()
			return nil, err
		}
	} else {
		archive = store.NewMemoryStore()
	}

	s := &Server{
		cfg:    cfg,
		runner: pipeline.NewRunner(c, nil, logger),
		store:  archive,
		logger: logger,
	}
	s.router = s.routes()
	return s, nil
}

// NewWithBackends builds a server over explicit backends, for tests.
func NewWithBackends(cfg Config, c cache.Cache, archive store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		runner: pipeline.NewRunner(c, nil, logger),
		store:  archive,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the service until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Close releases the backends.
func (s *Server) Close(ctx context.Context) error {
	if err := s.runner.Cache.Close(); err != nil {
		return err
	}
	return s.store.Close(ctx)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Get("/renders", s.handleListRenders)
		r.Get("/renders/{id}", s.handleGetRender)
	})
	return r
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// requestID assigns a UUID to every request.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", r.Context().Value(requestIDKey),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
