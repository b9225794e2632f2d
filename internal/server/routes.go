package server

import (
	"net/http"

	"golang.org/x/time/rate"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	limiter := newExportLimiter(s.app.Config.Export.RateLimit, s.app.Config.Export.RateBurst)
	quotations := s.app.QuotationHandler

	// API routes - System
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)   // GET - liveness
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler) // GET - build info
	mux.HandleFunc("/api/status", s.app.APIHandler.StatusHandler)   // GET - application status

	// API routes - Quotations
	mux.HandleFunc("/api/quotations", quotations.ListHandler) // GET (list)
	mux.HandleFunc("/api/quotations/", s.handleQuotationRoutes(limiter))

	// API routes - Ad-hoc rendering of posted quotation data
	mux.HandleFunc("/api/render/html", quotations.RenderHTMLHandler)
	mux.HandleFunc("/api/render/pdf", s.rateLimit(limiter, quotations.RenderPDFHandler))

	// 404 handler for unmatched API routes
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleQuotationRoutes routes /api/quotations/{id}, /{id}/html and /{id}/pdf
func (s *Server) handleQuotationRoutes(limiter *rate.Limiter) http.HandlerFunc {
	quotations := s.app.QuotationHandler
	routes := []PathSuffixRouter{
		{Suffix: "/html", Handler: quotations.HTMLHandler},
		{Suffix: "/pdf", Handler: s.rateLimit(limiter, quotations.PDFHandler)},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if RouteByPathSuffix(w, r, "/api/quotations/", routes) {
			return
		}
		quotations.GetHandler(w, r)
	}
}
