package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/models"
)

const (
	// DefaultMarginMM is the page margin on every side
	DefaultMarginMM = 5.0
	// pageTolerance absorbs rounding so an A4-high render stays on one page
	pageTolerance = 0.5
	imageName     = "document"
)

// ErrEmptyRaster is returned when there is no image data to place
var ErrEmptyRaster = errors.New("raster is empty")

// Assembler implements interfaces.PDFAssembler with fpdf
type Assembler struct {
	marginMM float64
	logger   arbor.ILogger
}

// Compile-time assertion
var _ interfaces.PDFAssembler = (*Assembler)(nil)

// NewAssembler creates an A4 portrait assembler. A non-positive margin uses DefaultMarginMM.
func NewAssembler(marginMM float64, logger arbor.ILogger) *Assembler {
	if marginMM <= 0 {
		marginMM = DefaultMarginMM
	}
	return &Assembler{
		marginMM: marginMM,
		logger:   logger,
	}
}

// Assemble scales the raster to the content width and slices it across as
// many A4 pages as its height needs.
func (a *Assembler) Assemble(raster *models.Raster, meta models.DocumentMeta) ([]byte, error) {
	if raster == nil || len(raster.Data) == 0 {
		return nil, ErrEmptyRaster
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raster.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode raster: %w", err)
	}
	if format != "jpeg" {
		return nil, fmt.Errorf("unsupported raster format %q", format)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, ErrEmptyRaster
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(a.marginMM, a.marginMM, a.marginMM)
	pdf.SetAutoPageBreak(false, a.marginMM)
	pdf.SetTitle(meta.Title, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetCreator(meta.Creator, true)

	options := fpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader(imageName, options, bytes.NewReader(raster.Data))
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to register raster: %w", err)
	}

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*a.marginMM
	contentH := pageH - 2*a.marginMM
	imageH := contentW * float64(cfg.Height) / float64(cfg.Width)
	pages := pageCount(imageH, contentH)

	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.ClipRect(a.marginMM, a.marginMM, contentW, contentH, false)
		pdf.ImageOptions(imageName, a.marginMM, a.marginMM-float64(i)*contentH, contentW, imageH, false, options, 0, "")
		pdf.ClipEnd()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		a.logger.Error().Err(err).Msg("Failed to generate PDF")
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	a.logger.Debug().
		Int("raster_width", cfg.Width).
		Int("raster_height", cfg.Height).
		Float64("image_height_mm", imageH).
		Int("pages", pages).
		Int("pdf_size", buf.Len()).
		Msg("Assembled PDF")

	return buf.Bytes(), nil
}

// pageCount is the number of content-high slices needed to show imageH
func pageCount(imageH, contentH float64) int {
	pages := int(math.Ceil((imageH - pageTolerance) / contentH))
	if pages < 1 {
		return 1
	}
	return pages
}
