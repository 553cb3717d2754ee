package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vbonduro/pantrypal/internal/auth"
	"github.com/vbonduro/pantrypal/internal/service"
)

// Services are the operations the HTTP API exposes.
type Services struct {
	Auth      *auth.Service
	Inventory *service.InventoryService
	Zones     *service.ZoneService
	Dashboard *service.DashboardService
	Scan      *service.ScanService
}

type Server struct {
	auth      *auth.Service
	inventory *service.InventoryService
	zones     *service.ZoneService
	dashboard *service.DashboardService
	scan      *service.ScanService
	validate  *validator.Validate
	mux       *http.ServeMux
	logger    *slog.Logger
}

func NewServer(svcs Services, logger *slog.Logger) *Server {
	s := &Server{
		auth:      svcs.Auth,
		inventory: svcs.Inventory,
		zones:     svcs.Zones,
		dashboard: svcs.Dashboard,
		scan:      svcs.Scan,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
	s.mux.HandleFunc("POST /api/auth/login", s.handleSignIn)
	s.mux.HandleFunc("POST /api/auth/logout", s.handleSignOut)
	s.mux.HandleFunc("POST /api/auth/password-reset", s.handleSendPasswordReset)
	s.mux.HandleFunc("POST /api/auth/password-reset/confirm", s.handleResetPassword)

	s.mux.HandleFunc("GET /api/profile", s.requireUser(s.handleProfile))
	s.mux.HandleFunc("GET /api/dashboard", s.requireUser(s.handleDashboard))

	s.mux.HandleFunc("GET /api/items", s.requireUser(s.handleListItems))
	s.mux.HandleFunc("POST /api/items", s.requireUser(s.handleAddItem))
	s.mux.HandleFunc("GET /api/items/{id}", s.requireUser(s.handleGetItem))
	s.mux.HandleFunc("PUT /api/items/{id}", s.requireUser(s.handleUpdateItem))
	s.mux.HandleFunc("DELETE /api/items/{id}", s.requireUser(s.handleDeleteItem))

	s.mux.HandleFunc("GET /api/zones", s.requireUser(s.handleListZones))
	s.mux.HandleFunc("POST /api/zones", s.requireUser(s.handleAddZone))
	s.mux.HandleFunc("PUT /api/zones/{id}", s.requireUser(s.handleRenameZone))
	s.mux.HandleFunc("DELETE /api/zones/{id}", s.requireUser(s.handleDeleteZone))
	s.mux.HandleFunc("POST /api/zones/{id}/scan", s.requireUser(s.handleScanZone))
	s.mux.HandleFunc("GET /api/zones/{id}/photo", s.requireUser(s.handleZonePhoto))
}

// securityHeaders sets the browser hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}
