package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// QuotationStorage implements interfaces.QuotationStorage for Badger
type QuotationStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewQuotationStorage creates a new QuotationStorage instance
func NewQuotationStorage(db *BadgerDB, logger arbor.ILogger) interfaces.QuotationStorage {
	return &QuotationStorage{
		db:     db,
		logger: logger,
	}
}

// GetQuotation retrieves a quotation by id
func (s *QuotationStorage) GetQuotation(ctx context.Context, id string) (*models.Quotation, error) {
	var quotation models.Quotation
	err := s.db.Store().Get(id, &quotation)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, fmt.Errorf("quotation %s: %w", id, interfaces.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return &quotation, nil
}

// ListQuotations returns summaries of all quotations ordered by quotation number
func (s *QuotationStorage) ListQuotations(ctx context.Context) ([]models.QuotationSummary, error) {
	var quotations []models.Quotation
	if err := s.db.Store().Find(&quotations, nil); err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	summaries := make([]models.QuotationSummary, 0, len(quotations))
	for i := range quotations {
		summaries = append(summaries, quotations[i].Summary())
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].QuotationNumber != summaries[j].QuotationNumber {
			return summaries[i].QuotationNumber < summaries[j].QuotationNumber
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// SaveQuotation inserts or replaces a quotation keyed by its id
func (s *QuotationStorage) SaveQuotation(ctx context.Context, quotation *models.Quotation) error {
	if quotation == nil || quotation.ID.IsEmpty() {
		return fmt.Errorf("quotation id is required")
	}
	if err := s.db.Store().Upsert(quotation.ID.String(), quotation); err != nil {
		return fmt.Errorf("failed to save quotation: %w", err)
	}
	return nil
}

// CountQuotations returns the number of stored quotations
func (s *QuotationStorage) CountQuotations(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Quotation{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count quotations: %w", err)
	}
	return int(count), nil
}

// GetCompany retrieves a company by id
func (s *QuotationStorage) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	err := s.db.Store().Get(id, &company)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, fmt.Errorf("company %s: %w", id, interfaces.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &company, nil
}

// SaveCompany inserts or replaces a company keyed by its id
func (s *QuotationStorage) SaveCompany(ctx context.Context, company *models.Company) error {
	if company == nil || company.ID.IsEmpty() {
		return fmt.Errorf("company id is required")
	}
	if err := s.db.Store().Upsert(company.ID.String(), company); err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}
	return nil
}
