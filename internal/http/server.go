package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/DaviiSA/AppControle/internal/events"
	"github.com/DaviiSA/AppControle/internal/ledger"
	applog "github.com/DaviiSA/AppControle/internal/log"
	"github.com/DaviiSA/AppControle/internal/services"
	appweb "github.com/DaviiSA/AppControle/web"
)

// EventPublisher emits ledger change notifications. A nil publisher
// disables the feed; publish failures never fail the mutation.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, event *events.RecordEvent) error
}

type Server struct {
	http.Server
	templates   *template.Template
	store       *ledger.Store
	syncSvc     *services.SyncService
	publisher   EventPublisher
	cards       []string
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, store *ledger.Store, syncSvc *services.SyncService, publisher EventPublisher, cards []string) *Server {
	mux := http.NewServeMux()
	logger := applog.New(applog.Config{
		Component: applog.ComponentHTTP,
		Handler:   slog.Default().Handler(),
	})

	// Every request carries a logger enriched with its request id.
	var handler http.Handler = mux
	handler = applog.RequestIDMiddleware(requestIDFor)(handler)
	handler = applog.Middleware(logger)(handler)

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: handler,
		},
		store:       store,
		syncSvc:     syncSvc,
		publisher:   publisher,
		cards:       cards,
		rateLimiter: newRateLimiter(),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.handleCreateRecord))
	mux.HandleFunc("/transactions/toggle", s.withSecurityHeaders(s.handleToggleRecord))
	mux.HandleFunc("/transactions/delete", s.withSecurityHeaders(s.handleDeleteRecord))
	// UI partials
	mux.HandleFunc("/ui/dashboard", s.withSecurityHeaders(s.handleDashboard))
	// Sync
	mux.HandleFunc("/sync/endpoint", s.withSecurityHeaders(s.handleSyncEndpoint))
	mux.HandleFunc("/sync/push", s.withSecurityHeaders(s.handleSyncPush))
	mux.HandleFunc("/sync/pull", s.withSecurityHeaders(s.handleSyncPull))
	mux.HandleFunc("/sync/status", s.withSecurityHeaders(s.handleSyncStatus))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)
		ctx := r.Context()
		logger := applog.FromContext(ctx)

		logger.InfoContext(ctx, "Request started",
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", ip,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit mutations only
		if r.Method == http.MethodPost && !s.rateLimiter.allow(ip) {
			logger.WarnContext(ctx, "Rate limit exceeded", "client_ip", ip, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		applog.LogHTTPEnd(ctx, logger, r, rw.statusCode, time.Since(start).Milliseconds(), ip)
	}
}

// requestIDFor honors an upstream X-Request-ID, generating one otherwise.
func requestIDFor(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return generateRequestID()
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Página não encontrada").Write(w)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	endpoint, err := s.syncSvc.Endpoint(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Load sync endpoint error", "error", err)
	}

	data := struct {
		Today    string
		Cards    []string
		Endpoint string
	}{
		Today:    time.Now().Format("2006-01-02"),
		Cards:    s.cards,
		Endpoint: endpoint,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// publishEvent emits a ledger change notification when a publisher is
// configured. Failures are logged only.
func (s *Server) publishEvent(ctx context.Context, event *events.RecordEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordEvent(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish record event", "error", err, "action", event.Action, "record_id", event.RecordID)
	}
}
