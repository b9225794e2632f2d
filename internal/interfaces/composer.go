package interfaces

import "github.com/ternarybob/quotedoc/internal/models"

// DocumentComposer turns quotation data into a self-contained HTML document.
// Missing or malformed data is defaulted, never rejected; an error is only
// returned when the template engine itself fails.
type DocumentComposer interface {
	Compose(quotation *models.Quotation, company *models.Company) (string, error)
}
