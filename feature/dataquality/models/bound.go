package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"quality-admin/core/utils"

	"github.com/shopspring/decimal"
)

// dateLayout is the wire layout of date bounds (YYYYMMDD).
const dateLayout = "20060102"

// viewDateLayout is the layout dates are shown with in session views.
const viewDateLayout = "2006-01-02"

// Bound is a nullable min/max limit. It holds either a decimal number or a calendar date.
// The zero value is null.
type Bound struct {
	valid  bool
	isDate bool
	num    decimal.Decimal
	date   time.Time
}

// NullBound returns an empty bound.
func NullBound() Bound {
	return Bound{}
}

// NumberBound returns a numeric bound.
func NumberBound(d decimal.Decimal) Bound {
	return Bound{valid: true, num: d}
}

// FloatBound returns a numeric bound from a float.
func FloatBound(f float64) Bound {
	return NumberBound(decimal.NewFromFloat(f))
}

// DateBound returns a date bound truncated to the calendar day in UTC.
func DateBound(t time.Time) Bound {
	y, m, d := t.Date()
	return Bound{valid: true, isDate: true, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// IsNull reports whether the bound is unset.
func (b Bound) IsNull() bool { return !b.valid }

// IsDate reports whether the bound holds a date.
func (b Bound) IsDate() bool { return b.valid && b.isDate }

// Date returns the date value. Only meaningful when IsDate is true.
func (b Bound) Date() time.Time { return b.date }

// Number returns the numeric value. Only meaningful for non-null, non-date bounds.
func (b Bound) Number() decimal.Decimal { return b.num }

// Equal reports whether two bounds hold the same value.
func (b Bound) Equal(o Bound) bool {
	if b.valid != o.valid || b.isDate != o.isDate {
		return false
	}
	if !b.valid {
		return true
	}
	if b.isDate {
		return b.date.Equal(o.date)
	}
	return b.num.Equal(o.num)
}

func (b Bound) String() string {
	switch {
	case !b.valid:
		return "null"
	case b.isDate:
		return b.date.Format(viewDateLayout)
	default:
		return b.num.String()
	}
}

// EncodeDate converts a date into its YYYYMMDD integer form.
func EncodeDate(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// DecodeDate parses a YYYYMMDD integer into a UTC date.
func DecodeDate(n int) (time.Time, error) {
	t, err := time.Parse(dateLayout, fmt.Sprintf("%08d", n))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date bound %d: %w", n, err)
	}
	return t, nil
}

// BoundFromWire converts a persisted bound into its in-session form. Date-typed fields decode
// YYYYMMDD integers; values that do not decode are kept as plain numbers so they round-trip.
func BoundFromWire(v *float64, dataType DataType) Bound {
	if v == nil {
		return NullBound()
	}
	if dataType == DataTypeDate {
		if *v == 0 {
			return NullBound()
		}
		// Fractional values cannot be YYYYMMDD and would be truncated by the decoder.
		if *v == math.Trunc(*v) {
			if t, err := DecodeDate(utils.ToInt(*v)); err == nil {
				return DateBound(t)
			}
		}
	}
	return FloatBound(*v)
}

// As returns the bound in the form a field of dataType holds after a round trip: on date fields
// YYYYMMDD numbers become dates, on other fields dates become YYYYMMDD numbers.
func (b Bound) As(dataType DataType) Bound {
	return BoundFromWire(b.ToWire(), dataType)
}

// ToWire converts a bound into its persisted form. Date bounds encode as YYYYMMDD.
func (b Bound) ToWire() *float64 {
	if !b.valid {
		return nil
	}
	var f float64
	if b.isDate {
		f = float64(EncodeDate(b.date))
	} else {
		f = b.num.InexactFloat64()
	}
	return &f
}

// MarshalJSON renders null, a JSON number, or a "YYYY-MM-DD" date string.
func (b Bound) MarshalJSON() ([]byte, error) {
	switch {
	case !b.valid:
		return []byte("null"), nil
	case b.isDate:
		return json.Marshal(b.date.Format(viewDateLayout))
	default:
		return json.Marshal(json.Number(b.num.String()))
	}
}

// UnmarshalJSON accepts null, a JSON number, a numeric string, or a "YYYY-MM-DD" date string.
func (b *Bound) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = NullBound()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*b = NullBound()
			return nil
		}
		if t, err := time.Parse(viewDateLayout, s); err == nil {
			*b = DateBound(t)
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("invalid bound %q", s)
		}
		*b = NumberBound(d)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid bound %s", data)
	}
	*b = NumberBound(d)
	return nil
}
