package models

import (
	"strings"
	"time"
)

const (
	// NotAvailable is the placeholder for missing identifiers and names
	NotAvailable = "N/A"
	// DefaultSubject is used when a quotation has no subject
	DefaultSubject = "QUOTATION FOR THE SUPPLY OF PERSONAL PROTECTIVE EQUIPMENT"
	// DefaultCompanyName is shown in the document header when the company has no name
	DefaultCompanyName = "Company Name"
)

// createdAtLayouts are the timestamp forms accepted for created_at
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
}

// Quotation is a price quotation record as returned by the quotations API
type Quotation struct {
	ID              Text     `json:"id"`
	CompanyID       Text     `json:"company_id,omitempty"`
	QuotationNumber Text     `json:"quotation_number"`
	CreatedAt       Text     `json:"created_at,omitempty"`
	Subject         Text     `json:"subject,omitempty"`
	Items           RawItems `json:"items"`

	// Pricing. Total is authoritative and never recomputed.
	Subtotal Number `json:"subtotal"`
	TaxRate  Number `json:"tax_rate"`
	Discount Number `json:"discount"`
	Total    Number `json:"total"`

	Notes          Text `json:"notes,omitempty"`
	Terms          Text `json:"terms,omitempty"`
	SignatoryName  Text `json:"signatory_name,omitempty"`
	SignatoryPhone Text `json:"signatory_phone,omitempty"`

	// Company is the embedded company record, when the API includes it
	Company *Company `json:"company,omitempty"`
}

// CreatedTime parses created_at; ok is false when it is missing or unparsable
func (q *Quotation) CreatedTime() (time.Time, bool) {
	if q == nil {
		return time.Time{}, false
	}
	raw := q.CreatedAt.String()
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FileName returns the download name Quotation-<quotation_number>.pdf
func (q *Quotation) FileName() string {
	number := ""
	if q != nil {
		number = q.QuotationNumber.String()
	}
	if number == "" {
		number = "unnumbered"
	}
	number = strings.NewReplacer("/", "-", "\\", "-").Replace(number)
	return "Quotation-" + number + ".pdf"
}

// Company is the issuing company shown in the document header
type Company struct {
	ID      Text `json:"id"`
	Name    Text `json:"name"`
	Address Text `json:"address,omitempty"`
	Contact Text `json:"contact,omitempty"`
	Phone   Text `json:"phone,omitempty"`
	Email   Text `json:"email,omitempty"`
}

// ContactLine returns contact, falling back to phone
func (c *Company) ContactLine() string {
	if c == nil {
		return ""
	}
	return firstText(c.Contact, c.Phone).String()
}

// ResolveCompany picks the company for a quotation: the explicit record first,
// then the one embedded in the quotation. It never returns nil.
func ResolveCompany(q *Quotation, explicit *Company) *Company {
	if explicit != nil {
		return explicit
	}
	if q != nil && q.Company != nil {
		return q.Company
	}
	return &Company{}
}

// QuotationSummary is the list view of a stored quotation
type QuotationSummary struct {
	ID              string  `json:"id"`
	QuotationNumber string  `json:"quotation_number"`
	Subject         string  `json:"subject"`
	CompanyID       string  `json:"company_id"`
	Total           float64 `json:"total"`
}

// Summary returns the list view of the quotation
func (q *Quotation) Summary() QuotationSummary {
	return QuotationSummary{
		ID:              q.ID.String(),
		QuotationNumber: q.QuotationNumber.String(),
		Subject:         q.Subject.Or(DefaultSubject),
		CompanyID:       q.CompanyID.String(),
		Total:           q.Total.Float64(),
	}
}
