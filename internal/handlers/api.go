package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/common"
)

// APIHandler serves the system endpoints: health, version, status and 404
type APIHandler struct {
	status StatusReporter
	logger arbor.ILogger
}

func NewAPIHandler(status StatusReporter, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		status: status,
		logger: logger,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, common.VersionInfo())
}

// HealthHandler reports liveness. The renderer field shows whether PDF export
// can currently run; it does not change the status code.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	renderer := "offline"
	if h.status != nil && h.status.Ready() {
		renderer = "ready"
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"renderer": renderer,
	})
}

// StatusHandler handles GET /api/status
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	if h.status == nil {
		WriteError(w, http.StatusServiceUnavailable, "Status unavailable")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, h.status.GetStatus(r.Context()))
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"status":  "error",
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
