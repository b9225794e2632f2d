package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/models"
	"github.com/ternarybob/quotedoc/internal/services/export"
)

const quotationsPrefix = "/api/quotations/"

// RenderRequest is the body of POST /api/render/html and /api/render/pdf
type RenderRequest struct {
	Quotation *models.Quotation `json:"quotation"`
	Company   *models.Company   `json:"company,omitempty"`
}

// QuotationHandler serves stored quotations and renders documents
type QuotationHandler struct {
	storage  interfaces.QuotationStorage
	composer interfaces.DocumentComposer
	exporter Exporter
	logger   arbor.ILogger
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(storage interfaces.QuotationStorage, composer interfaces.DocumentComposer, exporter Exporter, logger arbor.ILogger) *QuotationHandler {
	return &QuotationHandler{
		storage:  storage,
		composer: composer,
		exporter: exporter,
		logger:   logger,
	}
}

// ListHandler handles GET /api/quotations
func (h *QuotationHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	summaries, err := h.storage.ListQuotations(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list quotations")
		WriteError(w, http.StatusInternalServerError, "Failed to list quotations")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"quotations": summaries,
		"count":      len(summaries),
	})
}

// GetHandler handles GET /api/quotations/{id}
func (h *QuotationHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	quotation, ok := h.loadQuotation(w, r, "")
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, quotation)
}

// HTMLHandler handles GET /api/quotations/{id}/html
func (h *QuotationHandler) HTMLHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	quotation, ok := h.loadQuotation(w, r, "/html")
	if !ok {
		return
	}
	h.writeHTML(w, r, quotation, h.companyFor(r, quotation, nil))
}

// PDFHandler handles GET /api/quotations/{id}/pdf
func (h *QuotationHandler) PDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	quotation, ok := h.loadQuotation(w, r, "/pdf")
	if !ok {
		return
	}
	h.writePDF(w, r, quotation, h.companyFor(r, quotation, nil))
}

// RenderHTMLHandler handles POST /api/render/html
func (h *QuotationHandler) RenderHTMLHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	req, ok := h.decodeRender(w, r)
	if !ok {
		return
	}
	h.writeHTML(w, r, req.Quotation, h.companyFor(r, req.Quotation, req.Company))
}

// RenderPDFHandler handles POST /api/render/pdf
func (h *QuotationHandler) RenderPDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	req, ok := h.decodeRender(w, r)
	if !ok {
		return
	}
	h.writePDF(w, r, req.Quotation, h.companyFor(r, req.Quotation, req.Company))
}

func (h *QuotationHandler) decodeRender(w http.ResponseWriter, r *http.Request) (*RenderRequest, bool) {
	var req RenderRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if req.Quotation == nil {
		WriteError(w, http.StatusBadRequest, "quotation is required")
		return nil, false
	}
	return &req, true
}

func (h *QuotationHandler) loadQuotation(w http.ResponseWriter, r *http.Request, suffix string) (*models.Quotation, bool) {
	id := quotationID(r.URL.Path, suffix)
	if id == "" {
		WriteError(w, http.StatusBadRequest, "quotation id is required")
		return nil, false
	}

	quotation, err := h.storage.GetQuotation(r.Context(), id)
	if errors.Is(err, interfaces.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "Quotation not found")
		return nil, false
	}
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to get quotation")
		WriteError(w, http.StatusInternalServerError, "Failed to get quotation")
		return nil, false
	}
	return quotation, true
}

func (h *QuotationHandler) companyFor(r *http.Request, quotation *models.Quotation, explicit *models.Company) *models.Company {
	return export.CompanyFor(r.Context(), h.storage, quotation, explicit, h.logger)
}

func (h *QuotationHandler) writeHTML(w http.ResponseWriter, r *http.Request, quotation *models.Quotation, company *models.Company) {
	html, err := h.composer.Compose(quotation, company)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compose quotation")
		WriteError(w, http.StatusInternalServerError, "Failed to compose quotation")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func (h *QuotationHandler) writePDF(w http.ResponseWriter, r *http.Request, quotation *models.Quotation, company *models.Company) {
	saver := NewHTTPSaver(w)
	if err := h.exporter.ExportTo(r.Context(), quotation, company, saver); err != nil {
		h.logger.Error().
			Err(err).
			Str("quotation_number", quotation.QuotationNumber.String()).
			Msg("Failed to export quotation")
		if !saver.Written() {
			WriteError(w, exportStatus(err), "Failed to export quotation: "+err.Error())
		}
	}
}

// exportStatus maps export failures onto HTTP status codes
func exportStatus(err error) int {
	if errors.Is(err, export.ErrNoRenderTarget) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

// quotationID extracts {id} from /api/quotations/{id}{suffix}
func quotationID(path, suffix string) string {
	id := strings.TrimPrefix(path, quotationsPrefix)
	id = strings.TrimSuffix(id, suffix)
	id = strings.Trim(id, "/")
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
