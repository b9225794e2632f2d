package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
)

// Inspector implements interfaces.PDFInspector using pdfcpu
type Inspector struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.PDFInspector = (*Inspector)(nil)

// NewInspector creates a new PDF inspector
func NewInspector(logger arbor.ILogger) *Inspector {
	return &Inspector{logger: logger}
}

// Inspect validates the document and reads its page count
func (i *Inspector) Inspect(data []byte) (*interfaces.PDFMetadata, error) {
	conf := model.NewDefaultConfiguration()

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	pdfCtx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := pdfCtx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count PDF pages: %w", err)
	}

	metadata := &interfaces.PDFMetadata{
		PageCount:   pdfCtx.PageCount,
		FileSize:    int64(len(data)),
		IsEncrypted: pdfCtx.Encrypt != nil,
	}

	i.logger.Debug().
		Int("page_count", metadata.PageCount).
		Int64("file_size", metadata.FileSize).
		Bool("encrypted", metadata.IsEncrypted).
		Msg("Inspected PDF")

	return metadata, nil
}
