package interfaces

import "github.com/ternarybob/quotedoc/internal/models"

// PDFAssembler builds a PDF document from a rasterized page image
type PDFAssembler interface {
	// Assemble lays the raster out on A4 portrait pages and returns the PDF bytes
	Assemble(raster *models.Raster, meta models.DocumentMeta) ([]byte, error)
}
