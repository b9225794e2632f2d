package export

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/models"
)

type companyStore struct {
	interfaces.QuotationStorage
	companies map[string]*models.Company
	err       error
}

func (s *companyStore) GetCompany(_ context.Context, id string) (*models.Company, error) {
	if s.err != nil {
		return nil, s.err
	}
	if c, ok := s.companies[id]; ok {
		return c, nil
	}
	return nil, interfaces.ErrNotFound
}

func TestCompanyFor(t *testing.T) {
	ctx := context.Background()
	logger := arbor.NewLogger()
	stored := &models.Company{ID: "1", Name: "Stored"}
	store := &companyStore{companies: map[string]*models.Company{"1": stored}}

	explicit := &models.Company{Name: "Explicit"}
	embedded := &models.Company{Name: "Embedded"}

	assert.Same(t, explicit, CompanyFor(ctx, store, &models.Quotation{Company: embedded, CompanyID: "1"}, explicit, logger))
	assert.Same(t, embedded, CompanyFor(ctx, store, &models.Quotation{Company: embedded, CompanyID: "1"}, nil, logger))
	assert.Same(t, stored, CompanyFor(ctx, store, &models.Quotation{CompanyID: "1"}, nil, logger))
	assert.Nil(t, CompanyFor(ctx, store, &models.Quotation{CompanyID: "2"}, nil, logger))
	assert.Nil(t, CompanyFor(ctx, nil, &models.Quotation{CompanyID: "1"}, nil, logger))
	assert.Nil(t, CompanyFor(ctx, store, nil, nil, logger))

	failing := &companyStore{err: errors.New("db closed")}
	assert.Nil(t, CompanyFor(ctx, failing, &models.Quotation{CompanyID: "1"}, nil, logger))
}
