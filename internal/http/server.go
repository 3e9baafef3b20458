package http

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"obras/internal/advisor"
	"obras/internal/auth"
	"obras/internal/backend"
	applog "obras/internal/log"
	"obras/internal/metrics"
	"obras/internal/middleware/ratelimit"
	"obras/internal/middleware/security"
	"obras/internal/middleware/trace"
	"obras/internal/services"
	appweb "obras/web"
)

// Options wires the server to its collaborators. Publisher and Advisor may
// be nil.
type Options struct {
	Addr               string
	Provider           backend.Provider
	Publisher          services.ReportPublisher
	Advisor            *advisor.Advisor
	Sessions           *auth.Sessions
	Credentials        *auth.Credentials
	RateLimitPerMinute int
	TrustedProxies     []string
	DefaultLang        string
	SecureCookies      bool
	Logger             *applog.Logger

	// Templates and Static default to the embedded web assets.
	Templates fs.FS
	Static    fs.FS
}

type Server struct {
	http.Server
	templates     *templateSet
	provider      backend.Provider
	publisher     services.ReportPublisher
	advisor       *advisor.Advisor
	sessions      *auth.Sessions
	credentials   *auth.Credentials
	limiter       *ratelimit.Limiter
	detector      *security.Detector
	logger        *applog.Logger
	defaultLang   string
	secureCookies bool
	started       time.Time

	shutdownOnce sync.Once
}

// NewServer parses templates and builds the routed, middleware-wrapped
// handler. It fails when the templates cannot be parsed.
func NewServer(opts Options) (*Server, error) {
	if opts.Provider == nil || opts.Sessions == nil || opts.Credentials == nil {
		return nil, errors.New("http server needs a provider, sessions and credentials")
	}
	if opts.Templates == nil {
		opts.Templates = appweb.TemplatesFS
	}
	if opts.Static == nil {
		opts.Static = appweb.StaticFS
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}

	templates, err := parseTemplates(opts.Templates)
	if err != nil {
		return nil, err
	}

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	s := &Server{
		templates:     templates,
		provider:      opts.Provider,
		publisher:     opts.Publisher,
		advisor:       opts.Advisor,
		sessions:      opts.Sessions,
		credentials:   opts.Credentials,
		limiter:       ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:      detector,
		logger:        opts.Logger.WithComponent(applog.ComponentHTTP),
		defaultLang:   opts.DefaultLang,
		secureCookies: opts.SecureCookies,
		started:       time.Now(),
	}

	mux := http.NewServeMux()

	static, err := fs.Sub(opts.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	s.public(mux, "GET /healthz", s.handleHealth)
	s.public(mux, "GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())

	s.public(mux, "GET /login", s.handleLoginPage)
	s.public(mux, "POST /login", s.handleLogin)
	s.public(mux, "POST /logout", s.handleLogout)

	s.private(mux, "GET /{$}", s.handleDashboard)
	s.private(mux, "GET /projects", s.handleProjects)
	s.private(mux, "POST /projects", s.handleCreateProject)
	s.private(mux, "GET /projects/{id}", s.handleProject)
	s.private(mux, "GET /projects/{id}/delete", s.handleDeleteProject)
	s.private(mux, "POST /projects/{id}/delete", s.handleDeleteProject)
	s.private(mux, "GET /projects/{id}/financials", s.handleFinancials)
	s.private(mux, "GET /projects/{id}/export.xlsx", s.handleExport)
	s.private(mux, "GET /projects/{id}/print", s.handlePrint)
	s.private(mux, "POST /projects/{id}/analysis", s.handleAnalysis)

	s.private(mux, "POST /projects/{id}/stages", s.handleCreateStage)
	s.private(mux, "POST /stages/{id}/status", s.handleStageStatus)
	s.private(mux, "POST /projects/{id}/materials", s.handleAddMaterial)
	s.private(mux, "POST /materials/{id}/delete", s.handleDeleteMaterial)
	s.private(mux, "POST /projects/{id}/labor", s.handleAddLabor)
	s.private(mux, "POST /labor/{id}/delete", s.handleDeleteLabor)
	s.private(mux, "POST /projects/{id}/expenses", s.handleAddExpense)
	s.private(mux, "POST /expenses/{id}/delete", s.handleDeleteExpense)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = applog.RequestIDMiddleware(trace.GetRequestID)(handler)
	handler = applog.Middleware(opts.Logger)(handler)
	handler = trace.NewMiddleware(s.detector.ExtractClientIP, opts.Logger).Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// The advisor call can take a while; the client cancels it by leaving.
		WriteTimeout:   90 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s, nil
}

func (s *Server) public(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		trace.SetRoute(r.Context(), pattern)
		h(w, r)
	})
}

// private routes require a live session and never get cached.
func (s *Server) private(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	guarded := security.NoStore(s.requireSession(h))
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		trace.SetRoute(r.Context(), pattern)
		guarded.ServeHTTP(w, r)
	})
}

// Shutdown stops housekeeping goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	lang := s.lang(r)
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	TooManyRequestsError(t(lang, "error.rate_limit")).Write(w)
}
