// Package address converts between N3 account addresses and the
// 20-byte script hashes they encode.
package address

import (
	"errors"

	"github.com/n3lib/core/pkg/encoding/base58"
	"github.com/n3lib/core/pkg/util"
)

// Prefix is the version byte prepended to a script hash before
// Base58-Check encoding. N3 mainnet/testnet addresses all begin with
// 'N' as a result of this value.
const Prefix = 0x35

// Uint160ToString converts a 20-byte script hash into its N3 address
// representation.
func Uint160ToString(u util.Uint160) string {
	b := append([]byte{Prefix}, u.BytesBE()...)
	return base58.CheckEncode(b)
}

// StringToUint160 decodes an N3 address back into its script hash,
// rejecting malformed Base58, bad checksums, and addresses encoded
// with a version byte other than Prefix.
func StringToUint160(s string) (util.Uint160, error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return util.Uint160{}, err
	}
	if len(b) != 1+util.Uint160Size {
		return util.Uint160{}, errors.New("address: wrong payload length")
	}
	if b[0] != Prefix {
		return util.Uint160{}, errors.New("address: wrong version byte")
	}
	return util.Uint160DecodeBytesBE(b[1:])
}
