package util

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/n3lib/core/pkg/io"
)

// Uint256Size is the size of Uint256 in bytes.
const Uint256Size = 32

// Uint256 is a 32-byte hash: a transaction hash, a block hash, or a
// Merkle root. Its conventional textual form is big-endian hex, matching
// the chain's transaction/block hash display convention (the opposite of
// Uint160's contract-hash convention).
type Uint256 [Uint256Size]byte

// Uint256DecodeStringLE decodes a Uint256 from little-endian hex,
// optionally "0x"-prefixed.
func Uint256DecodeStringLE(s string) (u Uint256, err error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != Uint256Size*2 {
		return u, fmt.Errorf("%w: invalid string size", ErrInvalidFormat)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return Uint256DecodeBytesLE(b)
}

// Uint256DecodeStringBE decodes a Uint256 from big-endian hex,
// optionally "0x"-prefixed. This is the convention used for transaction
// and block hashes in RPC responses.
func Uint256DecodeStringBE(s string) (u Uint256, err error) {
	u, err = Uint256DecodeStringLE(s)
	if err != nil {
		return
	}
	u.reverse()
	return
}

// Uint256DecodeBytesLE decodes a Uint256 from a little-endian byte slice.
func Uint256DecodeBytesLE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("%w: invalid byte length", ErrInvalidFormat)
	}
	copy(u[:], b)
	return
}

func (u *Uint256) reverse() {
	for i, j := 0, len(u)-1; i < j; i, j = i+1, j-1 {
		u[i], u[j] = u[j], u[i]
	}
}

// BytesLE returns the underlying little-endian byte slice.
func (u Uint256) BytesLE() []byte {
	b := make([]byte, Uint256Size)
	copy(b, u[:])
	return b
}

// BytesBE returns the big-endian byte slice.
func (u Uint256) BytesBE() []byte {
	b := u.BytesLE()
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// Equals returns true when two Uint256 values carry identical bytes.
func (u Uint256) Equals(other Uint256) bool {
	return u == other
}

// Less gives a total, arbitrary but deterministic order.
func (u Uint256) Less(other Uint256) bool {
	return bytes.Compare(u[:], other[:]) < 0
}

// StringLE renders the little-endian hex form (wire order).
func (u Uint256) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// StringBE renders the big-endian hex form, the conventional textual
// representation of a transaction or block hash.
func (u Uint256) StringBE() string {
	return hex.EncodeToString(u.BytesBE())
}

// String implements fmt.Stringer using the transaction/block-hash
// (big-endian) convention.
func (u Uint256) String() string {
	return u.StringBE()
}

// EncodeBinary implements the io.Serializable interface.
func (u Uint256) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(u[:])
}

// DecodeBinary implements the io.Serializable interface.
func (u *Uint256) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(u[:])
}

// MarshalJSON implements the json.Marshaler interface, emitting
// big-endian hex with a "0x" prefix to match node output.
func (u Uint256) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + u.StringBE())
}

// UnmarshalJSON implements the json.Unmarshaler interface, accepting
// either a "0x"-prefixed or bare big-endian hex string.
func (u *Uint256) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	res, err := Uint256DecodeStringBE(s)
	if err != nil {
		return err
	}
	*u = res
	return nil
}
