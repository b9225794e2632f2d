package models

import (
	"bytes"
	"encoding/json"
)

// RawLineItem is a line item as supplied by the API.
// Both canonical and legacy field names are accepted; LineItem() resolves them.
type RawLineItem struct {
	Name        Text   `json:"name,omitempty"`
	Description Text   `json:"description,omitempty"` // legacy name
	UnitType    Text   `json:"unit_type,omitempty"`
	Unit        Text   `json:"unit,omitempty"` // legacy unit_type
	Price       Number `json:"price,omitempty"`
	UnitPrice   Number `json:"unit_price,omitempty"` // legacy price
	Quantity    Number `json:"quantity,omitempty"`
	Qty         Number `json:"qty,omitempty"` // legacy quantity
	Picture     Text   `json:"picture,omitempty"`
	Total       Number `json:"total,omitempty"` // stored line total, never rendered
}

// LineItem is the canonical line item used for formatting
type LineItem struct {
	Name      string
	Unit      string
	UnitPrice float64
	Quantity  float64
	Picture   string
}

// LineTotal is unit price times quantity, ignoring any stored total
func (li LineItem) LineTotal() float64 {
	return li.UnitPrice * li.Quantity
}

// LineItem maps legacy field names onto the canonical record and applies defaults
func (r RawLineItem) LineItem() LineItem {
	return LineItem{
		Name:      firstText(r.Name, r.Description).Or(NotAvailable),
		Unit:      firstText(r.UnitType, r.Unit).Or(NotAvailable),
		UnitPrice: firstNumber(r.Price, r.UnitPrice).Float64(),
		Quantity:  firstNumber(r.Quantity, r.Qty).Float64(),
		Picture:   r.Picture.String(),
	}
}

type itemsKind int

const (
	itemsEmpty itemsKind = iota
	itemsStructured
	itemsEncoded
)

// RawItems holds the items field of a quotation, which arrives either as a
// JSON array of line items or as a string containing that array.
type RawItems struct {
	kind       itemsKind
	structured []RawLineItem
	encoded    string
}

// ItemsOf builds structured items
func ItemsOf(items ...RawLineItem) RawItems {
	return RawItems{kind: itemsStructured, structured: items}
}

// EncodedItems builds items from JSON-encoded text
func EncodedItems(text string) RawItems {
	return RawItems{kind: itemsEncoded, encoded: text}
}

// IsEncoded reports whether the items arrived as encoded text
func (ri RawItems) IsEncoded() bool {
	return ri.kind == itemsEncoded
}

// Normalize resolves the items into canonical line items in their given order.
// Structured items are used directly; encoded text is parsed, and any parse
// failure yields an empty sequence.
func (ri RawItems) Normalize() []LineItem {
	var raw []RawLineItem
	switch ri.kind {
	case itemsStructured:
		raw = ri.structured
	case itemsEncoded:
		raw = parseEncodedItems(ri.encoded)
	}

	items := make([]LineItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, r.LineItem())
	}
	return items
}

// UnmarshalJSON accepts an array, a string, or anything else (treated as empty)
func (ri *RawItems) UnmarshalJSON(data []byte) error {
	*ri = RawItems{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '[':
		items, ok := decodeItemArray(data)
		if ok {
			*ri = ItemsOf(items...)
		}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*ri = EncodedItems(s)
		}
	}
	return nil
}

// MarshalJSON writes the original shape back out
func (ri RawItems) MarshalJSON() ([]byte, error) {
	switch ri.kind {
	case itemsStructured:
		if ri.structured == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(ri.structured)
	case itemsEncoded:
		return json.Marshal(ri.encoded)
	default:
		return []byte("null"), nil
	}
}

func parseEncodedItems(text string) []RawLineItem {
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 || data[0] != '[' {
		return nil
	}
	items, ok := decodeItemArray(data)
	if !ok {
		return nil
	}
	return items
}

// decodeItemArray decodes each element on its own so that one odd element
// becomes a defaulted row instead of discarding the whole table.
func decodeItemArray(data []byte) ([]RawLineItem, bool) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, false
	}

	items := make([]RawLineItem, 0, len(elements))
	for _, element := range elements {
		var item RawLineItem
		if err := json.Unmarshal(element, &item); err != nil {
			item = RawLineItem{}
		}
		items = append(items, item)
	}
	return items, true
}
