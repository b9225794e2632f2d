package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/ternarybob/quotedoc/internal/app"
	"github.com/ternarybob/quotedoc/internal/models"
	"github.com/ternarybob/quotedoc/internal/services/export"
	"golang.org/x/sync/errgroup"
)

// runExport writes PDFs for stored quotation ids and/or a quotation file into
// the configured output directory. Every export runs; the first error is returned.
func runExport(application *app.App, ids []string, quotationPath, companyPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limit := application.Config.Export.Concurrency
	if limit <= 0 {
		limit = application.Config.Browser.MaxInstances
	}

	var g errgroup.Group
	g.SetLimit(limit)

	var failed atomic.Int32
	storage := application.StorageManager.QuotationStorage()

	for _, id := range ids {
		g.Go(func() error {
			quotation, err := storage.GetQuotation(ctx, id)
			if err != nil {
				failed.Add(1)
				return fmt.Errorf("quotation %s: %w", id, err)
			}
			company := export.CompanyFor(ctx, storage, quotation, nil, application.Logger)
			if err := application.ExportService.Export(ctx, quotation, company); err != nil {
				failed.Add(1)
				return fmt.Errorf("quotation %s: %w", id, err)
			}
			return nil
		})
	}

	if quotationPath != "" {
		g.Go(func() error {
			quotation := &models.Quotation{}
			if err := readJSON(quotationPath, quotation); err != nil {
				failed.Add(1)
				return err
			}
			var company *models.Company
			if companyPath != "" {
				company = &models.Company{}
				if err := readJSON(companyPath, company); err != nil {
					failed.Add(1)
					return err
				}
			}
			company = export.CompanyFor(ctx, storage, quotation, company, application.Logger)
			if err := application.ExportService.Export(ctx, quotation, company); err != nil {
				failed.Add(1)
				return fmt.Errorf("%s: %w", quotationPath, err)
			}
			return nil
		})
	}

	err := g.Wait()

	total := len(ids)
	if quotationPath != "" {
		total++
	}
	application.Logger.Info().
		Int("total", total).
		Int("failed", int(failed.Load())).
		Str("output_dir", application.Saver.Dir()).
		Msg("Batch export finished")

	return err
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
