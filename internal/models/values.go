package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Text is a display string that accepts any JSON scalar.
// Strings are kept as-is, numbers and booleans keep their literal form,
// everything else (null, objects, arrays) decodes to the empty string.
type Text string

// UnmarshalJSON never fails for well-formed JSON
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*t = ""
			return nil
		}
		*t = Text(s)
	case 't', 'f':
		*t = Text(data)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*t = Text(data)
	default:
		*t = ""
	}
	return nil
}

// String returns the trimmed text
func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// IsEmpty reports whether the text is blank
func (t Text) IsEmpty() bool {
	return t.String() == ""
}

// Or returns the text, or fallback when the text is blank
func (t Text) Or(fallback string) string {
	if t.IsEmpty() {
		return fallback
	}
	return t.String()
}

// Number is a numeric field that defaults to 0 when absent or non-numeric.
// JSON numbers and numeric strings ("100.00") are accepted.
type Number float64

// UnmarshalJSON never fails for well-formed JSON
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = Number(v)
	return nil
}

// Float64 returns the value as float64
func (n Number) Float64() float64 {
	return float64(n)
}

// firstText returns the first non-blank candidate
func firstText(candidates ...Text) Text {
	for _, c := range candidates {
		if !c.IsEmpty() {
			return c
		}
	}
	return ""
}

// firstNumber returns the first non-zero candidate
func firstNumber(candidates ...Number) Number {
	for _, c := range candidates {
		if c != 0 {
			return c
		}
	}
	return 0
}
