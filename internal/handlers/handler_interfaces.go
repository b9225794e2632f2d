package handlers

import (
	"context"

	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/models"
)

// Exporter renders a quotation to PDF and delivers it through saver
type Exporter interface {
	ExportTo(ctx context.Context, quotation *models.Quotation, company *models.Company, saver interfaces.DocumentSaver) error
}

// StatusReporter builds the application status document
type StatusReporter interface {
	GetStatus(ctx context.Context) map[string]interface{}
	// Ready reports whether PDF export can run
	Ready() bool
}
