// Package handler exposes the workbench service as JSON over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"eightd/internal/audit"
	"eightd/internal/gateway/service/workbench"
	"eightd/internal/ingest"
	"eightd/internal/language"
	"eightd/internal/llmclient"
	"eightd/internal/pipeline"
	"eightd/internal/render"
	"eightd/internal/report"
	"eightd/internal/session"
)

// APIKeyHeader carries a caller-supplied model credential.
const APIKeyHeader = "X-LLM-API-Key"

// maxUpload bounds audit uploads.
const maxUpload = 16 << 20

type Handler struct {
	svc *workbench.Service
	log *log.Logger
}

func New(svc *workbench.Service, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{svc: svc, log: logger}
}

// Register installs every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("GET /v1/languages", h.languages)

	mux.HandleFunc("POST /v1/sessions", h.createSession)
	mux.HandleFunc("GET /v1/sessions/{id}", h.getSession)
	mux.HandleFunc("DELETE /v1/sessions/{id}", h.deleteSession)

	mux.HandleFunc("PUT /v1/sessions/{id}/report/{section}", h.putSection)
	mux.HandleFunc("POST /v1/sessions/{id}/report/d3", h.addContainment)
	mux.HandleFunc("DELETE /v1/sessions/{id}/report/d3", h.clearContainment)
	mux.HandleFunc("PUT /v1/sessions/{id}/report/d4/whys/{n}", h.putWhy)
	mux.HandleFunc("PUT /v1/sessions/{id}/report/d4/root-cause", h.putRootCause)
	mux.HandleFunc("POST /v1/sessions/{id}/report/d4/suggest", h.suggest)
	mux.HandleFunc("POST /v1/sessions/{id}/report/d4/adopt", h.adopt)
	mux.HandleFunc("POST /v1/sessions/{id}/report/d5", h.addAction)
	mux.HandleFunc("PATCH /v1/sessions/{id}/report/d5/{n}", h.patchAction)
	mux.HandleFunc("DELETE /v1/sessions/{id}/report/d5/{n}", h.deleteAction)
	mux.HandleFunc("GET /v1/sessions/{id}/report/actions", h.actions)
	mux.HandleFunc("GET /v1/sessions/{id}/report/export", h.exportReport)

	mux.HandleFunc("POST /v1/sessions/{id}/audit", h.runAudit)
	mux.HandleFunc("POST /v1/sessions/{id}/audit/translate", h.translateAudit)
	mux.HandleFunc("GET /v1/sessions/{id}/audit/export", h.exportAudit)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) languages(w http.ResponseWriter, _ *http.Request) {
	c := h.svc.Catalog()
	writeJSON(w, http.StatusOK, map[string]any{
		"native":    c.Native().Tag,
		"languages": c.All(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusOf maps service errors to HTTP status codes. Checks run from the most
// specific cause outwards, since pipeline errors wrap their cause.
func statusOf(err error) int {
	var (
		authErr   *llmclient.AuthError
		transErr  *llmclient.TransportError
		decodeErr *ingest.DecodeError
	)
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, llmclient.ErrMissingCredential):
		return http.StatusPreconditionFailed
	case errors.Is(err, language.ErrUnknown),
		errors.Is(err, pipeline.ErrEmptyInput),
		errors.Is(err, pipeline.ErrNoProblem),
		errors.Is(err, workbench.ErrInvalidInput),
		errors.Is(err, report.ErrIndex),
		errors.Is(err, ingest.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, audit.ErrNotReady),
		errors.Is(err, workbench.ErrNoSuggestion):
		return http.StatusConflict
	case errors.As(err, &decodeErr),
		errors.Is(err, ingest.ErrPDFUnsupported):
		return http.StatusUnprocessableEntity
	case errors.Is(err, render.ErrPDFDisabled):
		return http.StatusNotImplemented
	case errors.As(err, &authErr),
		errors.As(err, &transErr),
		errors.Is(err, llmclient.ErrEmptyResponse),
		errors.Is(err, pipeline.ErrExtraction),
		errors.Is(err, pipeline.ErrEvaluation),
		errors.Is(err, pipeline.ErrTranslation),
		errors.Is(err, pipeline.ErrAnalysis):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUpload)).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid json body", workbench.ErrInvalidInput)
	}
	return nil
}

// slot parses a 1-based path index into a 0-based one.
func slot(r *http.Request) (int, error) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: index must be a positive integer", workbench.ErrInvalidInput)
	}
	return n - 1, nil
}

func apiKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(APIKeyHeader))
}

func writeFile(w http.ResponseWriter, f *workbench.File) {
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(f.Name))
	if f.URL != "" {
		w.Header().Set("X-Artifact-URL", f.URL)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}
