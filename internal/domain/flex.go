package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexDecimal decodes a JSON number, a numeric string (comma or dot decimal
// separator), an empty string or null. The last two decode to zero.
type FlexDecimal struct {
	decimal.Decimal
}

// NewFlexDecimal wraps d
func NewFlexDecimal(d decimal.Decimal) FlexDecimal {
	return FlexDecimal{Decimal: d}
}

func (f *FlexDecimal) UnmarshalJSON(b []byte) error {
	d, err := decodeDecimal(b)
	if err != nil {
		return err
	}
	f.Decimal = d
	return nil
}

// FlexInt decodes a JSON number or numeric string holding a whole number in
// the int32 range of the integer columns. "3.0" is accepted, "3.5" is not.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	n, err := decodeInt(b)
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

var (
	minInt32 = decimal.NewFromInt(math.MinInt32)
	maxInt32 = decimal.NewFromInt(math.MaxInt32)
)

func decodeInt(b []byte) (int, error) {
	d, err := decodeDecimal(b)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%s is not a whole number", d.String())
	}
	if d.LessThan(minInt32) || d.GreaterThan(maxInt32) {
		return 0, fmt.Errorf("%s is out of range", d.String())
	}
	return int(d.IntPart()), nil
}

// ProductRow is the positional line format exchanged with the desktop client:
// [produs, brand, cod_produs, cantitate, pret_unitar, pret_total, discount, pret_cu_discount]
type ProductRow struct {
	Produs         string
	Brand          string
	CodProdus      string
	Cantitate      int
	PretUnitar     decimal.Decimal
	PretTotal      decimal.Decimal
	Discount       decimal.Decimal
	PretCuDiscount decimal.Decimal
}

const productRowLen = 8

func (r *ProductRow) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("product row must be an array: %w", err)
	}
	if len(raw) != productRowLen {
		return fmt.Errorf("product row must have %d values, got %d", productRowLen, len(raw))
	}

	var err error
	if r.Produs, err = decodeText(raw[0]); err != nil {
		return fmt.Errorf("produs: %w", err)
	}
	if r.Brand, err = decodeText(raw[1]); err != nil {
		return fmt.Errorf("brand: %w", err)
	}
	if r.CodProdus, err = decodeText(raw[2]); err != nil {
		return fmt.Errorf("cod_produs: %w", err)
	}

	if r.Cantitate, err = decodeInt(raw[3]); err != nil {
		return fmt.Errorf("cantitate: %w", err)
	}

	nums := []*decimal.Decimal{&r.PretUnitar, &r.PretTotal, &r.Discount, &r.PretCuDiscount}
	names := []string{"pret_unitar", "pret_total", "discount", "pret_cu_discount"}
	for i, dst := range nums {
		d, err := decodeDecimal(raw[4+i])
		if err != nil {
			return fmt.Errorf("%s: %w", names[i], err)
		}
		*dst = d
	}
	return nil
}

func (r ProductRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{
		r.Produs,
		r.Brand,
		r.CodProdus,
		r.Cantitate,
		r.PretUnitar.InexactFloat64(),
		r.PretTotal.InexactFloat64(),
		r.Discount.InexactFloat64(),
		r.PretCuDiscount.InexactFloat64(),
	})
}

func decodeDecimal(b []byte) (decimal.Decimal, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return decimal.Zero, nil
	}

	s := string(b)
	if b[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid string %s", s)
		}
		s = strings.TrimSpace(strings.ReplaceAll(unquoted, ",", "."))
		if s == "" {
			return decimal.Zero, nil
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %s", string(b))
	}
	return d, nil
}

func decodeText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return "", nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	// numeric product codes arrive unquoted
	return string(b), nil
}
