package util

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/n3lib/core/pkg/io"
)

// Uint160Size is the size of Uint160 in bytes.
const Uint160Size = 20

// Uint160 is a 20-byte short hash: a contract hash or an account's
// script hash. It has no byte order of its own on the wire (it is
// written/read as 20 raw bytes); its conventional textual form is
// little-endian hex, matching the chain's contract-hash display
// convention.
type Uint160 [Uint160Size]byte

// Uint160DecodeString attempts to decode the given string (optionally
// "0x"-prefixed little-endian hex) into a Uint160.
func Uint160DecodeString(s string) (u Uint160, err error) {
	return Uint160DecodeStringLE(s)
}

// Uint160DecodeStringLE decodes a Uint160 from little-endian hex,
// optionally "0x"-prefixed. This is the contract-hash display
// convention.
func Uint160DecodeStringLE(s string) (u Uint160, err error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != Uint160Size*2 {
		return u, fmt.Errorf("%w: invalid string size", ErrInvalidFormat)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return Uint160DecodeBytesLE(b)
}

// Uint160DecodeStringBE decodes a Uint160 from big-endian hex,
// optionally "0x"-prefixed.
func Uint160DecodeStringBE(s string) (u Uint160, err error) {
	u, err = Uint160DecodeStringLE(s)
	if err != nil {
		return
	}
	u.reverse()
	return
}

// Uint160DecodeBytesLE decodes a Uint160 from a little-endian byte slice.
func Uint160DecodeBytesLE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("%w: invalid byte length", ErrInvalidFormat)
	}
	copy(u[:], b)
	return
}

// Uint160DecodeBytesBE decodes a Uint160 from a big-endian byte slice.
func Uint160DecodeBytesBE(b []byte) (u Uint160, err error) {
	u, err = Uint160DecodeBytesLE(b)
	if err != nil {
		return
	}
	u.reverse()
	return
}

func (u *Uint160) reverse() {
	for i, j := 0, len(u)-1; i < j; i, j = i+1, j-1 {
		u[i], u[j] = u[j], u[i]
	}
}

// BytesBE returns a big-endian byte representation.
func (u Uint160) BytesBE() []byte {
	b := u.BytesLE()
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// BytesLE returns the underlying little-endian (wire-order) byte slice.
func (u Uint160) BytesLE() []byte {
	b := make([]byte, Uint160Size)
	copy(b, u[:])
	return b
}

// Equals returns true when two Uint160 values carry identical bytes.
func (u Uint160) Equals(other Uint160) bool {
	return u == other
}

// Less compares two values byte-by-byte; it gives a total, arbitrary but
// deterministic order, used e.g. to keep map iteration stable in tests.
func (u Uint160) Less(other Uint160) bool {
	return bytes.Compare(u[:], other[:]) < 0
}

// String implements fmt.Stringer, printing little-endian hex.
func (u Uint160) String() string {
	return hex.EncodeToString(u.BytesLE())
}

// StringLE is an explicit alias for String.
func (u Uint160) StringLE() string {
	return u.String()
}

// StringBE renders the big-endian hex form.
func (u Uint160) StringBE() string {
	return hex.EncodeToString(u.BytesBE())
}

// EncodeBinary implements the io.Serializable interface.
func (u Uint160) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(u[:])
}

// DecodeBinary implements the io.Serializable interface.
func (u *Uint160) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(u[:])
}

// MarshalJSON implements the json.Marshaler interface.
func (u Uint160) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + u.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (u *Uint160) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	res, err := Uint160DecodeString(s)
	if err != nil {
		return err
	}
	*u = res
	return nil
}

// ErrInvalidFormat is returned by the Uint160/Uint256 decoders for
// malformed hex or wrong-length input.
var ErrInvalidFormat = errors.New("invalid format")
