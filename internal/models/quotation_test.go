package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawItems_StructuredAndEncodedAgree(t *testing.T) {
	structured := `{"items":[{"name":"Helmet","price":100,"quantity":5,"unit_type":"Each"},{"description":"Gloves","unit":"Pair","unit_price":"12.5","qty":4}]}`
	encoded := `{"items":"[{\"name\":\"Helmet\",\"price\":100,\"quantity\":5,\"unit_type\":\"Each\"},{\"description\":\"Gloves\",\"unit\":\"Pair\",\"unit_price\":\"12.5\",\"qty\":4}]"}`

	var a, b Quotation
	require.NoError(t, json.Unmarshal([]byte(structured), &a))
	require.NoError(t, json.Unmarshal([]byte(encoded), &b))

	assert.False(t, a.Items.IsEncoded())
	assert.True(t, b.Items.IsEncoded())
	assert.Equal(t, a.Items.Normalize(), b.Items.Normalize())

	items := a.Items.Normalize()
	require.Len(t, items, 2)
	assert.Equal(t, LineItem{Name: "Helmet", Unit: "Each", UnitPrice: 100, Quantity: 5}, items[0])
	assert.Equal(t, LineItem{Name: "Gloves", Unit: "Pair", UnitPrice: 12.5, Quantity: 4}, items[1])
}

func TestRawItems_MalformedYieldsEmpty(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "broken encoded text", json: `{"items":"{not json"}`},
		{name: "encoded object", json: `{"items":"{\"name\":\"x\"}"}`},
		{name: "empty string", json: `{"items":""}`},
		{name: "null", json: `{"items":null}`},
		{name: "number", json: `{"items":42}`},
		{name: "object", json: `{"items":{"name":"x"}}`},
		{name: "missing", json: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quotation
			require.NoError(t, json.Unmarshal([]byte(tt.json), &q))
			assert.Empty(t, q.Items.Normalize())
		})
	}
}

func TestRawItems_OddElementBecomesDefaultedRow(t *testing.T) {
	items := EncodedItems(`[7, {"name":"Boots","price":10,"quantity":1}]`).Normalize()
	require.Len(t, items, 2)
	assert.Equal(t, LineItem{Name: NotAvailable, Unit: NotAvailable}, items[0])
	assert.Equal(t, "Boots", items[1].Name)
}

func TestRawLineItem_Precedence(t *testing.T) {
	item := RawLineItem{
		Name:        "Canonical",
		Description: "Legacy",
		UnitType:    "Box",
		Unit:        "Each",
		Price:       0,
		UnitPrice:   7,
		Quantity:    3,
		Qty:         9,
		Total:       999,
	}.LineItem()

	assert.Equal(t, "Canonical", item.Name)
	assert.Equal(t, "Box", item.Unit)
	assert.Equal(t, 7.0, item.UnitPrice, "zero price falls through to unit_price")
	assert.Equal(t, 3.0, item.Quantity)
	assert.Equal(t, 21.0, item.LineTotal(), "stored total is ignored")
}

func TestLenientScalars(t *testing.T) {
	var q Quotation
	payload := `{"id":12,"quotation_number":"QT-1","total":"5,250","tax_rate":"15","discount":true,"notes":null,"signatory_phone":771234567}`
	require.NoError(t, json.Unmarshal([]byte(payload), &q))

	assert.Equal(t, "12", q.ID.String())
	assert.Equal(t, Number(0), q.Total, "non-numeric strings default to zero")
	assert.Equal(t, Number(15), q.TaxRate)
	assert.Equal(t, Number(0), q.Discount)
	assert.True(t, q.Notes.IsEmpty())
	assert.Equal(t, "771234567", q.SignatoryPhone.String())
}

func TestRawItems_MarshalRoundTripKeepsShape(t *testing.T) {
	q := Quotation{Items: EncodedItems(`[{"name":"Mask"}]`)}
	data, err := json.Marshal(q)
	require.NoError(t, err)

	var back Quotation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Items.IsEncoded())
	assert.Equal(t, "Mask", back.Items.Normalize()[0].Name)
}

func TestQuotation_CreatedTime(t *testing.T) {
	tests := []struct {
		raw  Text
		ok   bool
		want string
	}{
		{raw: "2023-12-05T10:30:00.000Z", ok: true, want: "2023-12-05"},
		{raw: "2023-12-05T10:30:00+05:30", ok: true, want: "2023-12-05"},
		{raw: "2023-12-05 10:30:00", ok: true, want: "2023-12-05"},
		{raw: "2023-12-05", ok: true, want: "2023-12-05"},
		{raw: "", ok: false},
		{raw: "yesterday", ok: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.raw), func(t *testing.T) {
			q := &Quotation{CreatedAt: tt.raw}
			got, ok := q.CreatedTime()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestQuotation_FileName(t *testing.T) {
	assert.Equal(t, "Quotation-QT-202312-0001.pdf", (&Quotation{QuotationNumber: "QT-202312-0001"}).FileName())
	assert.Equal(t, "Quotation-QT-2023-12-7.pdf", (&Quotation{QuotationNumber: "QT/2023/12\\7"}).FileName())
	assert.Equal(t, "Quotation-unnumbered.pdf", (&Quotation{}).FileName())
}

func TestResolveCompany(t *testing.T) {
	embedded := &Company{Name: "Embedded"}
	explicit := &Company{Name: "Explicit"}

	assert.Same(t, explicit, ResolveCompany(&Quotation{Company: embedded}, explicit))
	assert.Same(t, embedded, ResolveCompany(&Quotation{Company: embedded}, nil))
	assert.NotNil(t, ResolveCompany(nil, nil))
	assert.Equal(t, "077", (&Company{Phone: "077"}).ContactLine())
}
