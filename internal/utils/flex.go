// internal/utils/flex.go
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexDecimal accepts a JSON number or a numeric string. Forms post prices
// as strings, the dashboard as numbers.
type FlexDecimal struct {
	Value decimal.Decimal
	Set   bool
}

func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexDecimal{}
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = FlexDecimal{}
			return nil
		}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid number %q", raw)
	}
	*f = FlexDecimal{Value: d, Set: true}
	return nil
}

func (f FlexDecimal) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return []byte(f.Value.String()), nil
}

func NewFlexDecimal(d decimal.Decimal) FlexDecimal {
	return FlexDecimal{Value: d, Set: true}
}

// FlexInt accepts a JSON number or numeric string, truncating fractions
// towards zero.
type FlexInt struct {
	Value int
	Set   bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var d FlexDecimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	if !d.Set {
		*f = FlexInt{}
		return nil
	}

	n, err := strconv.Atoi(d.Value.Truncate(0).String())
	if err != nil {
		return fmt.Errorf("invalid integer %s", d.Value.String())
	}
	*f = FlexInt{Value: n, Set: true}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

func NewFlexInt(n int) FlexInt {
	return FlexInt{Value: n, Set: true}
}
