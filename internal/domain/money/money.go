// Package money holds currency amounts as integer minor units.
//
// Amounts are parsed and rendered through shopspring/decimal so that user
// input such as "12.345" or "1e2" is rounded once, at the boundary, to two
// decimals. Arithmetic on Money is plain int64 arithmetic on cents; stored
// running totals go through CheckedAdd and CheckedSub.
package money

import (
	"bytes"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const Scale = 2

// MaxAmount is the largest magnitude Parse accepts and the bound for checked
// arithmetic: ten trillion in major units.
const MaxAmount Money = 1_000_000_000_000_000

const (
	maxInputLength = 64
	maxExponent    = 32
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrOutOfRange    = errors.New("amount out of range")
)

var maxAmountDecimal = decimal.New(int64(MaxAmount), -Scale)

// Money is a signed amount in minor units (cents).
type Money int64

func FromMinor(cents int64) Money {
	return Money(cents)
}

// FromMajor converts whole currency units, e.g. FromMajor(300) is 300.00.
func FromMajor(units int64) Money {
	return Money(units * 100)
}

// FromFloat rounds a float to two decimals. Only use it for values that
// already came in as floats (legacy documents); prefer Parse for input.
func FromFloat(value float64) Money {
	return fromDecimal(decimal.NewFromFloat(value))
}

// Parse reads a decimal string, accepting either '.' or ',' as separator.
func Parse(value string) (Money, error) {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > maxInputLength {
		return 0, ErrInvalidAmount
	}
	if strings.Count(value, ",") == 1 && !strings.Contains(value, ".") {
		value = strings.Replace(value, ",", ".", 1)
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Comparing or rounding rescales the coefficient by the exponent, so
	// the exponent is bounded first.
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return 0, ErrInvalidAmount
	}
	rounded := d.Round(Scale)
	if rounded.Abs().GreaterThan(maxAmountDecimal) {
		return 0, ErrInvalidAmount
	}
	return Money(rounded.Shift(Scale).IntPart()), nil
}

func fromDecimal(d decimal.Decimal) Money {
	return Money(d.Round(Scale).Shift(Scale).IntPart())
}

func (m Money) Minor() int64 {
	return int64(m)
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -Scale)
}

func (m Money) Float64() float64 {
	return m.Decimal().InexactFloat64()
}

func (m Money) String() string {
	return m.Decimal().StringFixed(Scale)
}

func (m Money) Add(other Money) Money {
	return m + other
}

func (m Money) Sub(other Money) Money {
	return m - other
}

// CheckedAdd returns ErrOutOfRange instead of a sum beyond MaxAmount.
func (m Money) CheckedAdd(other Money) (Money, error) {
	if (other > 0 && m > math.MaxInt64-other) || (other < 0 && m < math.MinInt64-other) {
		return m, ErrOutOfRange
	}
	sum := m + other
	if sum > MaxAmount || sum < -MaxAmount {
		return m, ErrOutOfRange
	}
	return sum, nil
}

func (m Money) CheckedSub(other Money) (Money, error) {
	if other == math.MinInt64 {
		return m, ErrOutOfRange
	}
	return m.CheckedAdd(-other)
}

func (m Money) Neg() Money {
	return -m
}

func (m Money) IsZero() bool {
	return m == 0
}

func (m Money) IsPositive() bool {
	return m > 0
}

func (m Money) IsNegative() bool {
	return m < 0
}

func Max(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}

func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
