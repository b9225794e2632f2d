package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/models"
)

var (
	// ErrNoRenderTarget is returned when no render target could be acquired
	ErrNoRenderTarget = errors.New("no render target available")
	// ErrNoSaver is returned by Export when the service has no default saver
	ErrNoSaver = errors.New("no document saver configured")
)

// Options control rasterization and the render deadline
type Options struct {
	Scale            float64
	JPEGQuality      int
	RenderTimeout    time.Duration
	FailOnImageError bool
	Creator          string
}

// DefaultOptions renders at 2x with JPEG quality 98
func DefaultOptions() Options {
	return Options{
		Scale:            2,
		JPEGQuality:      98,
		RenderTimeout:    60 * time.Second,
		FailOnImageError: true,
		Creator:          "quotedoc",
	}
}

// Service drives a quotation through compose, render, rasterize, assemble and save
type Service struct {
	composer  interfaces.DocumentComposer
	provider  interfaces.RenderTargetProvider
	assembler interfaces.PDFAssembler
	inspector interfaces.PDFInspector
	saver     interfaces.DocumentSaver
	registry  *Registry
	options   Options
	logger    arbor.ILogger
}

// NewService creates the export driver. saver is the default used by Export and may be nil.
func NewService(
	composer interfaces.DocumentComposer,
	provider interfaces.RenderTargetProvider,
	assembler interfaces.PDFAssembler,
	inspector interfaces.PDFInspector,
	saver interfaces.DocumentSaver,
	options Options,
	logger arbor.ILogger,
) *Service {
	return &Service{
		composer:  composer,
		provider:  provider,
		assembler: assembler,
		inspector: inspector,
		saver:     saver,
		registry:  NewRegistry(),
		options:   options,
		logger:    logger,
	}
}

// Registry exposes the attached render targets
func (s *Service) Registry() *Registry {
	return s.registry
}

// Export renders the quotation and saves it with the default saver
func (s *Service) Export(ctx context.Context, quotation *models.Quotation, company *models.Company) error {
	if s.saver == nil {
		return ErrNoSaver
	}
	return s.ExportTo(ctx, quotation, company, s.saver)
}

// ExportTo renders the quotation and hands Quotation-<number>.pdf to saver.
// saver is only called once a valid document exists, and the render target
// is released after saver returns, on every path.
func (s *Service) ExportTo(ctx context.Context, quotation *models.Quotation, company *models.Company, saver interfaces.DocumentSaver) error {
	if saver == nil {
		return ErrNoSaver
	}
	if quotation == nil {
		quotation = &models.Quotation{}
	}
	company = models.ResolveCompany(quotation, company)
	fileName := quotation.FileName()
	startTime := time.Now()

	var size int
	save := func(data []byte) error {
		size = len(data)
		if err := saver.Save(ctx, fileName, data); err != nil {
			return fmt.Errorf("failed to save %s: %w", fileName, err)
		}
		return nil
	}

	if err := s.render(ctx, quotation, company, save); err != nil {
		s.logger.Error().
			Err(err).
			Str("file_name", fileName).
			Msg("Quotation export failed")
		return err
	}

	s.logger.Info().
		Str("file_name", fileName).
		Int("size", size).
		Dur("duration", time.Since(startTime)).
		Msg("Quotation exported")

	return nil
}

// render produces the validated PDF bytes and passes them to save while the
// target is still attached. The target is released, and deregistered, before
// render returns.
func (s *Service) render(ctx context.Context, quotation *models.Quotation, company *models.Company, save func([]byte) error) error {
	html, err := s.composer.Compose(quotation, company)
	if err != nil {
		return fmt.Errorf("failed to compose document: %w", err)
	}

	if s.options.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.RenderTimeout)
		defer cancel()
	}

	if s.provider == nil {
		return ErrNoRenderTarget
	}
	target, err := s.provider.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoRenderTarget, err)
	}
	if target == nil {
		return ErrNoRenderTarget
	}

	id := target.ID()
	logger := s.logger.WithCorrelationId(id)
	s.registry.Attach(id)
	defer func() {
		if err := target.Release(); err != nil {
			logger.Warn().Err(err).Msg("Failed to release render target")
		}
		s.registry.Detach(id)
	}()

	logger.Debug().
		Str("quotation_number", quotation.QuotationNumber.String()).
		Int("html_len", len(html)).
		Msg("Rendering quotation")

	if err := target.Mount(ctx, html); err != nil {
		return fmt.Errorf("failed to mount document: %w", err)
	}

	raster, err := target.Rasterize(ctx, interfaces.RasterOptions{
		Scale:            s.options.Scale,
		JPEGQuality:      s.options.JPEGQuality,
		FailOnImageError: s.options.FailOnImageError,
	})
	if err != nil {
		return fmt.Errorf("failed to rasterize document: %w", err)
	}

	data, err := s.assembler.Assemble(raster, s.documentMeta(quotation, company))
	if err != nil {
		return fmt.Errorf("failed to assemble PDF: %w", err)
	}

	if s.inspector != nil {
		meta, err := s.inspector.Inspect(data)
		if err != nil {
			return fmt.Errorf("generated PDF failed validation: %w", err)
		}
		logger.Debug().
			Int("pages", meta.PageCount).
			Int64("size", meta.FileSize).
			Msg("PDF validated")
	}

	return save(data)
}

func (s *Service) documentMeta(quotation *models.Quotation, company *models.Company) models.DocumentMeta {
	return models.DocumentMeta{
		Title:   "Quotation " + quotation.QuotationNumber.Or(models.NotAvailable),
		Subject: quotation.Subject.Or(models.DefaultSubject),
		Author:  company.Name.String(),
		Creator: s.options.Creator,
	}
}
