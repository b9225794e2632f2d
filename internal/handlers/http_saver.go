package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ternarybob/quotedoc/internal/interfaces"
)

// HTTPSaver delivers a document as a download on the response
type HTTPSaver struct {
	w       http.ResponseWriter
	written bool
}

// Compile-time assertion
var _ interfaces.DocumentSaver = (*HTTPSaver)(nil)

// NewHTTPSaver creates a saver writing to w
func NewHTTPSaver(w http.ResponseWriter) *HTTPSaver {
	return &HTTPSaver{w: w}
}

// Save writes data with an attachment Content-Disposition
func (s *HTTPSaver) Save(ctx context.Context, fileName string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h := s.w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	s.w.WriteHeader(http.StatusOK)
	s.written = true

	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// Written reports whether the response has been started
func (s *HTTPSaver) Written() bool {
	return s.written
}
