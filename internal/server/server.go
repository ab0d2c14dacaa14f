// Package server implements the graphspec profile server: a small HTTP
// surface that lists configured profiles and serves each one as a
// self-contained interactive diagram page. The server owns request
// multiplexing and caching; all graph semantics live in the pipeline.
package server

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/graphspec/graphspec/pkg/cache"
	gserrors "github.com/graphspec/graphspec/pkg/errors"
	"github.com/graphspec/graphspec/pkg/pipeline"
	"github.com/graphspec/graphspec/pkg/profile"
	"github.com/graphspec/graphspec/pkg/render/dot"
	"github.com/graphspec/graphspec/pkg/render/page"
)

// Server serves rendered profile pages.
type Server struct {
	cfg    *profile.Config
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a Server for the given configuration. The runner carries the
// artifact cache; pass a NullCache-backed runner to disable caching.
func New(cfg *profile.Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, runner: runner, logger: logger}
}

// NewCache builds the cache backend the configuration asks for.
func NewCache(ctx context.Context, cfg profile.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	case "memory":
		return cache.NewMemoryCache(cfg.Size)
	}
	return nil, gserrors.New(gserrors.ErrCodeInvalidInput, "unknown cache backend %q (want memory, redis, or none)", cfg.Backend)
}

// Handler returns the HTTP handler tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Get("/", s.handleIndex)
	r.Get("/{profile}", s.handleProfile)
	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info("serving profiles", "addr", s.cfg.Addr, "profiles", len(s.cfg.Profiles))
	s.logger.Warn("don't assume this service is safe on a public interface; profiles can run arbitrary commands")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries := make([]page.IndexEntry, 0, len(s.cfg.Profiles))
	for name, p := range s.cfg.Profiles {
		entries = append(entries, page.IndexEntry{Name: name, Label: p.Label})
	}
	sortEntries(entries)

	html, err := page.RenderIndex(entries)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "profile")
	p, ok := s.cfg.Profiles[name]
	if !ok {
		s.writeError(w, r, gserrors.New(gserrors.ErrCodeProfileNotFound, "no such profile %q", name))
		return
	}

	opts, err := requestOptions(r, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	src, err := p.Source()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lines, err := src.Lines(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts.Formats = []string{pipeline.FormatHTML}
	opts.Title = name
	if p.Label != "" {
		opts.Title = p.Label
	}
	opts.TTL = s.cfg.Cache.TTL.Duration

	result, err := s.runner.Execute(r.Context(), lines, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(result.Artifacts[pipeline.FormatHTML])
}

// requestOptions merges profile defaults with query-string overrides:
// ?reduce=, ?include_everything=, ?engine=.
func requestOptions(r *http.Request, p profile.Profile) (pipeline.Options, error) {
	opts := pipeline.Options{
		Reduce:            p.Reduce,
		IncludeEverything: p.IncludeEverything,
	}

	if v := r.URL.Query().Get("reduce"); v != "" {
		opts.Reduce = truthy(v)
	}
	if v := r.URL.Query().Get("include_everything"); v != "" {
		opts.IncludeEverything = truthy(v)
	}

	engineName := p.Engine
	if v := r.URL.Query().Get("engine"); v != "" {
		engineName = v
	}
	engine, err := dot.ParseEngine(engineName)
	if err != nil {
		return opts, err
	}
	opts.Engine = engine
	return opts, nil
}

func truthy(v string) bool {
	switch v {
	case "0", "false", "no", "off":
		return false
	}
	return true
}

// writeError maps structured error codes onto HTTP statuses. Internal
// details stay in the log; clients get the code and message only.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch gserrors.CodeOf(err) {
	case gserrors.ErrCodeProfileNotFound:
		status = http.StatusNotFound
	case gserrors.ErrCodeInvalidInput, gserrors.ErrCodeInvalidEngine, gserrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	}

	s.logger.Error("request failed",
		"path", r.URL.Path, "status", status, "err", err)

	var structured *gserrors.Error
	msg := http.StatusText(status)
	if errors.As(err, &structured) {
		msg = structured.Error()
	}
	http.Error(w, msg, status)
}

// requestLogger tags every request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("X-Request-ID", id)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Millisecond))
	})
}

func sortEntries(entries []page.IndexEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
}
