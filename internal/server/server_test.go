package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/app"
	"github.com/ternarybob/quotedoc/internal/common"
	"github.com/ternarybob/quotedoc/internal/handlers"
	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/models"
	"github.com/ternarybob/quotedoc/internal/services/composer"
	"github.com/ternarybob/quotedoc/internal/services/export"
	"github.com/ternarybob/quotedoc/internal/services/status"
	"github.com/ternarybob/quotedoc/internal/storage/badger"
)

type stubExporter struct{}

func (stubExporter) ExportTo(ctx context.Context, q *models.Quotation, _ *models.Company, saver interfaces.DocumentSaver) error {
	return saver.Save(ctx, q.FileName(), []byte("%PDF-1.4"))
}

func newTestServer(t *testing.T, rateLimit float64, burst int) http.Handler {
	t.Helper()
	logger := arbor.NewLogger()

	config := common.NewDefaultConfig()
	config.Export.RateLimit = rateLimit
	config.Export.RateBurst = burst

	manager, err := badger.NewManager(logger, &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	storage := manager.QuotationStorage()
	require.NoError(t, storage.SaveQuotation(context.Background(), &models.Quotation{ID: "1", QuotationNumber: "QT-1"}))

	docs := composer.NewService(composer.Options{}, logger)
	application := &app.App{
		Config:           config,
		Logger:           logger,
		StorageManager:   manager,
		APIHandler:       handlers.NewAPIHandler(status.NewService(export.NewRegistry(), nil, storage, logger), logger),
		QuotationHandler: handlers.NewQuotationHandler(storage, docs, stubExporter{}, logger),
	}
	return New(application).Handler()
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	h := newTestServer(t, 0, 0)

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{path: "/api/health", status: http.StatusOK, contentType: "application/json"},
		{path: "/api/version", status: http.StatusOK, contentType: "application/json"},
		{path: "/api/status", status: http.StatusOK, contentType: "application/json"},
		{path: "/api/quotations", status: http.StatusOK, contentType: "application/json"},
		{path: "/api/quotations/1", status: http.StatusOK, contentType: "application/json"},
		{path: "/api/quotations/1/html", status: http.StatusOK, contentType: "text/html; charset=utf-8"},
		{path: "/api/quotations/1/pdf", status: http.StatusOK, contentType: "application/pdf"},
		{path: "/api/quotations/2/pdf", status: http.StatusNotFound, contentType: "application/json"},
		{path: "/api/nothing", status: http.StatusNotFound, contentType: "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestPreflight(t *testing.T) {
	h := newTestServer(t, 0, 0)
	rec := serve(h, http.MethodOptions, "/api/render/pdf")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExportRateLimit(t *testing.T) {
	h := newTestServer(t, 0.001, 1)

	first := serve(h, http.MethodGet, "/api/quotations/1/pdf")
	require.Equal(t, http.StatusOK, first.Code)

	second := serve(h, http.MethodGet, "/api/quotations/1/pdf")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	// HTML previews are not throttled
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/quotations/1/html").Code)
}

func TestHealthReportsOfflineRenderer(t *testing.T) {
	h := newTestServer(t, 0, 0)
	rec := serve(h, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","renderer":"offline"}`, rec.Body.String())
}
