package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mvallbona/stockledger/internal/domain"
	"github.com/mvallbona/stockledger/internal/service"
)

type Server struct {
	inventory *service.InventoryService
	ledger    *service.LedgerService
	backup    *service.BackupService
	reports   *service.ReportService
	mux       *http.ServeMux
	logger    *slog.Logger
}

func NewServer(
	inventory *service.InventoryService,
	ledger *service.LedgerService,
	backup *service.BackupService,
	reports *service.ReportService,
	logger *slog.Logger,
) *Server {
	s := &Server{
		inventory: inventory,
		ledger:    ledger,
		backup:    backup,
		reports:   reports,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /families", s.handleListFamilies)
	s.mux.HandleFunc("POST /families", s.handleCreateFamily)
	s.mux.HandleFunc("PUT /families/{id}", s.handleUpdateFamily)
	s.mux.HandleFunc("DELETE /families/{id}", s.handleDeleteFamily)

	s.mux.HandleFunc("GET /subfamilies", s.handleListSubfamilies)
	s.mux.HandleFunc("POST /subfamilies", s.handleCreateSubfamily)
	s.mux.HandleFunc("PUT /subfamilies/{id}", s.handleUpdateSubfamily)
	s.mux.HandleFunc("DELETE /subfamilies/{id}", s.handleDeleteSubfamily)

	s.mux.HandleFunc("GET /locations", s.handleListLocations)
	s.mux.HandleFunc("POST /locations", s.handleCreateLocation)
	s.mux.HandleFunc("PUT /locations/{id}", s.handleUpdateLocation)
	s.mux.HandleFunc("DELETE /locations/{id}", s.handleDeleteLocation)

	s.mux.HandleFunc("GET /users", s.handleListUsers)
	s.mux.HandleFunc("POST /users", s.handleCreateUser)
	s.mux.HandleFunc("PUT /users/{id}", s.handleUpdateUser)
	s.mux.HandleFunc("DELETE /users/{id}", s.handleDeleteUser)

	s.mux.HandleFunc("GET /items", s.handleListItems)
	s.mux.HandleFunc("POST /items", s.handleCreateItem)
	s.mux.HandleFunc("GET /items/{id}", s.handleGetItem)
	s.mux.HandleFunc("PUT /items/{id}", s.handleUpdateItem)
	s.mux.HandleFunc("DELETE /items/{id}", s.handleDeleteItem)
	s.mux.HandleFunc("GET /items/{id}/locations", s.handleGetItemLocations)
	s.mux.HandleFunc("PUT /items/{id}/locations", s.handleSetItemLocations)

	s.mux.HandleFunc("GET /report", s.handleReport)
	s.mux.HandleFunc("GET /report/export", s.handleReportExport)

	s.mux.HandleFunc("GET /backup", s.handleExportBackup)
	s.mux.HandleFunc("POST /backup/import", s.handleImportBackup)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
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

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps the domain error kinds onto HTTP statuses: bad input
// is 400, missing rows 404, in-flight conflicts 409 (retryable), and
// store or ordering failures 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *domain.ValidationError
		serr *domain.RestoreShapeError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &verr), errors.As(err, &serr):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConcurrencyConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.respondJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	s.respondJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
