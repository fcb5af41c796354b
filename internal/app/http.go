package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/captainminh1999/my-webspace-sub000/internal/export"
	"github.com/captainminh1999/my-webspace-sub000/internal/store"
	"github.com/captainminh1999/my-webspace-sub000/internal/webhook"
)

const (
	maxUploadBody  = 8 << 20
	maxWebhookBody = 1 << 20
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
	logger     *slog.Logger
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin, logger: service.Logger()}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch r.URL.Path {
	case "/health":
		if allowMethods(w, r, http.MethodGet, http.MethodHead) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		}
	case "/ready":
		if allowMethods(w, r, http.MethodGet, http.MethodHead) {
			s.handleReady(w, r)
		}
	case "/get-cv-section":
		if allowMethods(w, r, http.MethodGet) {
			payload, err := s.service.Section(r.Context(), r.URL.Query().Get("section"))
			if err != nil {
				s.writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, payload)
		}
	case "/get-full-cv":
		if allowMethods(w, r, http.MethodGet) {
			s.writeCached(w, r, s.service.FullCVJSON)
		}
	case "/get-widget":
		if allowMethods(w, r, http.MethodGet) {
			s.handleWidget(w, r)
		}
	case "/get-all-widgets":
		if allowMethods(w, r, http.MethodGet) {
			s.writeCached(w, r, s.service.AllWidgetsJSON)
		}
	case "/upload-cv-data":
		if allowMethods(w, r, http.MethodPost) {
			s.handleUpload(w, r)
		}
	case "/get-deploy-status":
		if allowMethods(w, r, http.MethodGet) {
			deploy, err := s.service.DeployStatus(r.Context())
			if err != nil {
				s.writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, deploy)
		}
	case "/ebay-account-deletion-webhook":
		if allowMethods(w, r, http.MethodGet, http.MethodPost) {
			s.handleEbay(w, r)
		}
	case "/export-cv-pdf":
		if allowMethods(w, r, http.MethodGet) {
			s.handleExport(w, r)
		}
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	statusCode := http.StatusOK
	checks := map[string]any{
		"database": map[string]any{"status": "ok"},
	}
	if err := s.service.Ping(ctx); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		checks["database"] = map[string]any{
			"status": "error",
			"error":  err.Error(),
		}
	}
	// The cache is bypassed on failure, so it never makes the API unready.
	if checked, err := s.service.PingCache(ctx); checked {
		if err != nil {
			checks["cache"] = map[string]any{"status": "degraded", "error": err.Error()}
		} else {
			checks["cache"] = map[string]any{"status": "ok"}
		}
	}

	writeJSON(w, statusCode, map[string]any{
		"ok":     status == "ready",
		"status": status,
		"checks": checks,
	})
}

func (s *HTTPServer) handleWidget(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("widget"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Missing widget parameter", nil)
		return
	}
	payload, err := s.service.Widget(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if payload == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Widget data not found", map[string]any{"widget": id})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	var body UploadInput
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	result, err := s.service.UploadCVData(r.Context(), body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleEbay(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		code, err := s.service.EbayChallenge(r.URL.Query().Get("challenge_code"))
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, code)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Could not read request body", nil)
		return
	}
	rec, err := s.service.RecordAccountDeletion(r.Context(), body, r.Header.Get(webhook.SignatureHeader))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": rec.ID})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	format, ok := export.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "format must be pdf or html", nil)
		return
	}
	result, err := s.service.ExportCV(r.Context(), format)
	if err != nil {
		if errors.Is(err, export.ErrPDFDependencyMissing) {
			writeError(w, http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "PDF export is not available on this server", nil)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (s *HTTPServer) writeCached(w http.ResponseWriter, r *http.Request, load func(context.Context) ([]byte, error)) {
	data, err := load(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message, details := mapError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"code", code,
			"error", err,
		)
	}
	writeError(w, status, code, message, details)
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		s.logger.Info("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", writer.status,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID, "+webhook.SignatureHeader)
	header.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

// allowMethods answers 405 with an Allow header unless r uses one of methods.
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", fmt.Sprintf("Method %s not allowed", r.Method), nil)
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return fmt.Errorf("request body is required")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body too large")
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, store.ErrNotConfigured) {
		return http.StatusInternalServerError, "CONFIG_ERROR", "Database not configured", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
