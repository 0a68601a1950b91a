package fixedn

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/n3lib/core/pkg/io"
)

const decimals = 100000000

// Fixed8 represents a fixed-point number with a precision of 8 decimal
// digits, the unit GAS amounts are expressed in.
type Fixed8 int64

// Fixed8FromInt64 returns Fixed8 equal to the given int64.
func Fixed8FromInt64(val int64) Fixed8 {
	return Fixed8(decimals * val)
}

// Fixed8FromFloat returns Fixed8 rounded to 8 decimal digits.
func Fixed8FromFloat(val float64) Fixed8 {
	return Fixed8(math.Round(val * decimals))
}

// Fixed8FromString parses s as a decimal number with up to 8
// fractional digits.
func Fixed8FromString(s string) (Fixed8, error) {
	bi, err := FromString(s, 8)
	if err != nil {
		return 0, err
	}
	return Fixed8(bi.Int64()), nil
}

// Satoshi returns the smallest representable positive Fixed8 value.
func Satoshi() Fixed8 {
	return Fixed8(1)
}

// IntegralValue returns the integer part of the value.
func (f Fixed8) IntegralValue() int64 {
	return int64(f) / decimals
}

// FractionalValue returns the fractional part of the value, scaled to
// an integer in (-decimals, decimals).
func (f Fixed8) FractionalValue() int32 {
	return int32(int64(f) % decimals)
}

// FloatValue returns the value as a float64.
func (f Fixed8) FloatValue() float64 {
	return float64(f) / decimals
}

// Add returns f+g.
func (f Fixed8) Add(g Fixed8) Fixed8 {
	return f + g
}

// Sub returns f-g.
func (f Fixed8) Sub(g Fixed8) Fixed8 {
	return f - g
}

// Div returns f/i, truncated towards zero.
func (f Fixed8) Div(i int64) Fixed8 {
	return Fixed8(int64(f) / i)
}

// LessThan reports whether f < g.
func (f Fixed8) LessThan(g Fixed8) bool {
	return f < g
}

// GreaterThan reports whether f > g.
func (f Fixed8) GreaterThan(g Fixed8) bool {
	return f > g
}

// Equal reports whether f == g.
func (f Fixed8) Equal(g Fixed8) bool {
	return f == g
}

// CompareTo returns -1, 0 or 1 as f is less than, equal to, or
// greater than g.
func (f Fixed8) CompareTo(g Fixed8) int {
	switch {
	case f < g:
		return -1
	case f > g:
		return 1
	default:
		return 0
	}
}

// String implements fmt.Stringer, rendering the value as a decimal
// string with a trimmed fractional part.
func (f Fixed8) String() string {
	return ToString(big.NewInt(int64(f)), 8)
}

// MarshalJSON implements json.Marshaler.
func (f Fixed8) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting both a JSON
// number and a quoted decimal string.
func (f *Fixed8) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return &json.UnsupportedValueError{Str: "fixed8: unsupported JSON value"}
	}

	val, err := Fixed8FromString(s)
	if err != nil {
		return err
	}
	*f = val
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Fixed8) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	s = strings.Trim(s, `"`)
	val, err := Fixed8FromString(s)
	if err != nil {
		return err
	}
	*f = val
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f Fixed8) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// EncodeBinary implements io.Serializable.
func (f Fixed8) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(f))
}

// DecodeBinary implements io.Serializable.
func (f *Fixed8) DecodeBinary(r *io.BinReader) {
	*f = Fixed8(r.ReadU64LE())
}
