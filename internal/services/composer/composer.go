package composer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/models"
)

// Intro is the fixed sentence printed above the item table
const Intro = "Further to your inquiry, we are pleased to quote the following items."

// Layout is the page geometry of the composed document, in millimetres
type Layout struct {
	PageWidthMM    float64
	PageHeightMM   float64
	TopMarginMM    float64
	SideMarginMM   float64
	BottomMarginMM float64 // footer distance from the bottom edge
	FooterGapMM    float64 // minimum space between the grand total and the footer
}

// DefaultLayout is an A4 portrait page
func DefaultLayout() Layout {
	return Layout{
		PageWidthMM:    210,
		PageHeightMM:   297,
		TopMarginMM:    20,
		SideMarginMM:   25,
		BottomMarginMM: 15,
		FooterGapMM:    10,
	}
}

// Options configure the composer
type Options struct {
	Layout Layout
	// Location converts created_at before formatting; nil keeps the timestamp's own offset
	Location *time.Location
}

// Service implements interfaces.DocumentComposer
type Service struct {
	tmpl    *template.Template
	options Options
	logger  arbor.ILogger
}

// Compile-time assertion
var _ interfaces.DocumentComposer = (*Service)(nil)

// NewService creates a new composer. A zero layout falls back to DefaultLayout.
func NewService(options Options, logger arbor.ILogger) *Service {
	if options.Layout == (Layout{}) {
		options.Layout = DefaultLayout()
	}
	return &Service{
		tmpl:    template.Must(template.New("quotation").Parse(documentTemplate)),
		options: options,
		logger:  logger,
	}
}

type companyView struct {
	Name    string
	Address string
	Contact string
	Email   string
}

type rowView struct {
	Sequence  string
	Name      string
	Unit      string
	UnitPrice string
	Quantity  string
	LineTotal string
	Picture   any
}

type documentView struct {
	Layout         Layout
	Company        companyView
	Date           string
	Number         string
	Recipient      string
	Subject        string
	Intro          string
	Rows           []rowView
	GrandTotal     string
	Notes          []string
	Terms          []string
	TaxLine        string
	DiscountLine   string
	SignatoryName  string
	SignatoryPhone string
}

// Compose renders the quotation document. Missing or malformed fields are
// defaulted; an error is returned only when template execution fails.
// A nil company falls back to the company embedded in the quotation.
func (s *Service) Compose(q *models.Quotation, c *models.Company) (string, error) {
	if q == nil {
		q = &models.Quotation{}
	}
	c = models.ResolveCompany(q, c)

	view := s.buildView(q, c)

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render quotation document: %w", err)
	}

	s.logger.Debug().
		Str("quotation_number", view.Number).
		Int("items", len(view.Rows)).
		Int("html_len", buf.Len()).
		Msg("Composed quotation document")

	return buf.String(), nil
}

func (s *Service) buildView(q *models.Quotation, c *models.Company) documentView {
	created, ok := q.CreatedTime()

	view := documentView{
		Layout: s.options.Layout,
		Company: companyView{
			Name:    c.Name.Or(models.DefaultCompanyName),
			Address: c.Address.String(),
			Contact: c.ContactLine(),
			Email:   c.Email.String(),
		},
		Date:           formatDate(created, ok, s.options.Location),
		Number:         q.QuotationNumber.Or(models.NotAvailable),
		Recipient:      c.Name.Or(models.NotAvailable),
		Subject:        q.Subject.Or(models.DefaultSubject),
		Intro:          Intro,
		GrandTotal:     formatMoney(q.Total.Float64()),
		Notes:          splitLines(q.Notes.String()),
		Terms:          splitLines(q.Terms.String()),
		SignatoryName:  q.SignatoryName.Or(models.NotAvailable),
		SignatoryPhone: q.SignatoryPhone.String(),
	}

	if rate := q.TaxRate.Float64(); rate > 0 {
		view.TaxLine = formatPlain(rate) + "% Tax will be applied."
	}
	if discount := q.Discount.Float64(); discount > 0 {
		view.DiscountLine = "Discount of LKR " + formatMoney(discount) + " has been applied."
	}

	items := q.Items.Normalize()
	view.Rows = make([]rowView, 0, len(items))
	for i, item := range items {
		view.Rows = append(view.Rows, rowView{
			Sequence:  formatSequence(i),
			Name:      item.Name,
			Unit:      item.Unit,
			UnitPrice: formatMoney(item.UnitPrice),
			Quantity:  formatPlain(item.Quantity),
			LineTotal: formatMoney(item.LineTotal()),
			Picture:   pictureSource(item.Picture),
		})
	}

	return view
}

// pictureSource passes inline image data through the URL sanitizer untouched.
// Other sources are left to html/template, which neutralises unsafe schemes.
func pictureSource(src string) any {
	if src == "" {
		return nil
	}
	if strings.HasPrefix(strings.ToLower(src), "data:image/") {
		return template.URL(src)
	}
	return src
}
