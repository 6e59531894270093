// Package server serves a loaded site over HTTP. Each browser tab gets a
// live session over a websocket that owns its own navigation state.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mdparty/internal/content"
	"github.com/ziadkadry99/mdparty/internal/fetch"
	"github.com/ziadkadry99/mdparty/internal/router"
	"github.com/ziadkadry99/mdparty/internal/site"
)

const (
	// LivePath is the websocket endpoint of live sessions.
	LivePath = "/ws"
	// AssetPath prefixes proxied content assets.
	AssetPath = "/content/"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
	// AssetPatterns are doublestar globs of content paths the asset proxy
	// may serve. Nothing is served when empty.
	AssetPatterns []string
}

// AssetFetcher reads raw content resources for the asset proxy.
type AssetFetcher interface {
	FetchBytes(ctx context.Context, ref string) ([]byte, string, error)
}

// Server serves the site shell, live sessions and content assets.
type Server struct {
	cfg        Config
	assets     AssetFetcher
	logger     *zap.SugaredLogger
	router     chi.Router
	httpServer *http.Server

	site      atomic.Pointer[content.Site]
	ready     chan struct{}
	readyOnce sync.Once

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a server. The site is served as loading until MarkReady is
// called.
func New(cfg Config, assets AssetFetcher, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{
		cfg:      cfg,
		assets:   assets,
		logger:   logger,
		ready:    make(chan struct{}),
		sessions: make(map[string]*session),
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  zap.NewStdLog(s.logger.Desugar()),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Live sessions are long-lived and stay outside the request timeout.
	r.Get(LivePath, s.handleLive)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/readyz", s.handleReady)
		r.Get("/", s.handleShell)
		r.Get("/api/pages", s.handlePages)
		r.Get(AssetPath+"*", s.handleAsset)
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// MarkReady publishes the loaded site. Sessions waiting for content start
// navigating. Only the first call has an effect.
func (s *Server) MarkReady(loaded *content.Site) {
	s.readyOnce.Do(func() {
		s.site.Store(loaded)
		close(s.ready)
		s.logger.Infow("site ready", "pages", len(loaded.Sitemap))
	})
}

// Ready is closed once the site has been published.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Site returns the published site, or nil while loading.
func (s *Server) Site() *content.Site { return s.site.Load() }

// SessionCount reports the number of open live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.httpServer.RegisterOnShutdown(s.closeSessions)

	s.logger.Infow("mdparty server listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	s.closeSessions()
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Site() == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleShell serves the document the live session attaches to. Navigation
// state belongs to the session, so the shell always shows the loading view.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	m := site.Model{
		State:     router.State{Phase: router.Loading},
		Site:      s.Site(),
		AssetBase: AssetPath,
		LiveURL:   LivePath,
	}
	var buf bytes.Buffer
	if err := site.Render(&buf, m); err != nil {
		s.logger.Errorw("rendering shell", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

type pageEntry struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Reachable bool   `json:"reachable"`
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	loaded := s.Site()
	if loaded == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	entries := make([]pageEntry, 0, len(loaded.Sitemap))
	for _, name := range loaded.Sitemap {
		entries = append(entries, pageEntry{
			Name:      name,
			Slug:      router.Slugify(name),
			Reachable: loaded.Sitemap.Reachable(name),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	ref, ok := assetRef(chi.URLParam(r, "*"))
	if !ok || !s.allowed(ref) {
		http.NotFound(w, r)
		return
	}

	body, contentType, err := s.assets.FetchBytes(r.Context(), ref)
	if err != nil {
		var fe *fetch.FetchError
		if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		s.logger.Warnw("asset fetch failed", "ref", ref, "error", err)
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}

	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(ref))
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Write(body)
}

// allowed reports whether ref matches one of the configured asset patterns.
func (s *Server) allowed(ref string) bool {
	for _, pattern := range s.cfg.AssetPatterns {
		if ok, _ := doublestar.Match(pattern, ref); ok {
			return true
		}
	}
	return false
}

// assetRef cleans a requested asset path. Absolute references and paths
// escaping the content root are rejected.
func assetRef(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	cleaned := path.Clean(u.Path)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
