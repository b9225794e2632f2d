// -----------------------------------------------------------------------
// Storage interfaces - quotation source consumed by the export pipeline
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/quotedoc/internal/models"
)

// ErrNotFound is returned when a quotation or company does not exist
var ErrNotFound = errors.New("record not found")

// QuotationStorage - read access for callers, write access for the seed loader
type QuotationStorage interface {
	GetQuotation(ctx context.Context, id string) (*models.Quotation, error)
	ListQuotations(ctx context.Context) ([]models.QuotationSummary, error)
	SaveQuotation(ctx context.Context, quotation *models.Quotation) error
	CountQuotations(ctx context.Context) (int, error)

	GetCompany(ctx context.Context, id string) (*models.Company, error)
	SaveCompany(ctx context.Context, company *models.Company) error
}

// StorageManager - owns the database and exposes its storages
type StorageManager interface {
	QuotationStorage() QuotationStorage
	LoadSeedFiles(ctx context.Context, dir string) error
	Close() error
}
