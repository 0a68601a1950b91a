// Package fixedn implements fixed-point decimal encodings used for GAS
// and NEP-17 token amounts.
package fixedn

import (
	"errors"
	"math/big"
	"strings"
)

// ToString renders bi as a decimal string with prec fractional digits,
// trimming a trailing ".000...0" back down to the integral part.
func ToString(bi *big.Int, prec int) string {
	sign := ""
	val := new(big.Int).Set(bi)
	if val.Sign() < 0 {
		sign = "-"
		val.Neg(val)
	}

	s := val.String()
	if prec == 0 {
		return sign + s
	}

	for len(s) <= prec {
		s = "0" + s
	}

	intPart := s[:len(s)-prec]
	fracPart := strings.TrimRight(s[len(s)-prec:], "0")
	if fracPart == "" {
		return sign + intPart
	}
	return sign + intPart + "." + fracPart
}

// FromString parses s as a decimal string with at most prec fractional
// digits, returning the scaled integer value.
func FromString(s string, prec int) (*big.Int, error) {
	if s == "" {
		return nil, errors.New("fixedn: empty string")
	}

	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return nil, errors.New("fixedn: empty string")
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		fracPart = s[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > prec {
		return nil, errors.New("fixedn: too many fractional digits")
	}
	for len(fracPart) < prec {
		fracPart += "0"
	}

	digits := intPart + fracPart
	if digits == "" {
		return nil, errors.New("fixedn: empty string")
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, errors.New("fixedn: invalid digit " + string(c))
		}
	}

	bi, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, errors.New("fixedn: invalid number " + s)
	}
	if neg {
		bi.Neg(bi)
	}
	return bi, nil
}
