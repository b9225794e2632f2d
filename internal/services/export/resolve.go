package export

import (
	"context"
	"errors"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/models"
)

// CompanyFor picks the company printed on a quotation: explicit, then the
// embedded record, then the stored company with company_id. It returns nil
// when none is found so the composer applies its defaults.
func CompanyFor(ctx context.Context, storage interfaces.QuotationStorage, quotation *models.Quotation, explicit *models.Company, logger arbor.ILogger) *models.Company {
	if explicit != nil {
		return explicit
	}
	if quotation == nil {
		return nil
	}
	if quotation.Company != nil {
		return quotation.Company
	}
	if storage == nil || quotation.CompanyID.IsEmpty() {
		return nil
	}

	company, err := storage.GetCompany(ctx, quotation.CompanyID.String())
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			logger.Warn().Err(err).Str("company_id", quotation.CompanyID.String()).Msg("Failed to load company")
		}
		return nil
	}
	return company
}
