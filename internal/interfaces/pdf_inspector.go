// -----------------------------------------------------------------------
// PDF Inspector Interface - Validate generated PDF documents
// -----------------------------------------------------------------------

package interfaces

// PDFMetadata contains metadata about a PDF document
type PDFMetadata struct {
	PageCount   int   `json:"page_count"`
	FileSize    int64 `json:"file_size"`
	IsEncrypted bool  `json:"is_encrypted"`
}

// PDFInspector validates PDF bytes and reports their metadata
type PDFInspector interface {
	// Inspect validates the document and returns its metadata
	Inspect(data []byte) (*PDFMetadata, error)
}
