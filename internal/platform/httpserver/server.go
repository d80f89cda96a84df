package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	authorization "vendorhub/contexts/identity-access/authorization-service"
	dealservice "vendorhub/contexts/vendor-marketplace/deal-service"
	"vendorhub/internal/platform/auth"
	// Registers the OpenAPI document served under /swagger/.
	_ "vendorhub/internal/platform/httpserver/docs"
	"vendorhub/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// AdminRole gates vendor mutations.
const AdminRole = "admin"

type Server struct {
	mux           *http.ServeMux
	handler       http.Handler
	logger        *slog.Logger
	addr          string
	jwtSecret     []byte
	metrics       *metrics.Metrics
	vendors       dealservice.Module
	authorization authorization.Module
	httpServer    *http.Server
}

func New(
	vendors dealservice.Module,
	authorizationModule authorization.Module,
	processMetrics *metrics.Metrics,
	jwtSecret string,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		jwtSecret:     []byte(jwtSecret),
		metrics:       processMetrics,
		vendors:       vendors,
		authorization: authorizationModule,
	}
	s.registerRoutes()
	s.handler = chi.Chain(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
	).Handler(s.mux)
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler is the full middleware chain, exposed for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.route("GET /api/vendors/v1/vendors", s.handleListVendors)
	s.route("GET /api/vendors/v1/vendors/{vendor_id}", s.handleGetVendor)
	s.route("PATCH /api/vendors/v1/vendors/{vendor_id}", s.handleUpdateVendor)
	s.route("POST /api/vendors/v1/vendors/{vendor_id}/deal", s.handleCloseDeal)
	s.route("GET /api/vendors/v1/catalog", s.handleCatalog)
	s.route("GET /api/vendors/v1/translations/{key}", s.handleTranslate)

	s.route("POST /api/authz/v1/rpc/has_role", s.handleAuthzHasRole)
	s.route("GET /api/authz/v1/users/{user_id}/roles", s.handleAuthzListUserRoles)
	s.route("POST /api/authz/v1/users/{user_id}/roles/grant", s.handleAuthzGrantRole)
	s.route("POST /api/authz/v1/users/{user_id}/roles/revoke", s.handleAuthzRevokeRole)
}

func (s *Server) route(pattern string, handler http.HandlerFunc) {
	s.mux.Handle(pattern, s.metrics.WithRoute(pattern, handler))
}

// requireSubject verifies the bearer token and returns its subject.
func (s *Server) requireSubject(w http.ResponseWriter, r *http.Request) (string, bool) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return "", false
	}
	subject, err := auth.ParseSubject(s.jwtSecret, strings.TrimSpace(parts[1]))
	if err != nil {
		s.logger.Debug("bearer token rejected",
			"event", "http_bearer_rejected",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeError(w, http.StatusUnauthorized, "unauthorized", "bearer token is invalid or expired")
		return "", false
	}
	return subject, true
}

func requireRequestID(w http.ResponseWriter, r *http.Request) bool {
	if strings.TrimSpace(r.Header.Get("X-Request-Id")) == "" {
		writeError(w, http.StatusBadRequest, "missing_request_id", "X-Request-Id header is required")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
