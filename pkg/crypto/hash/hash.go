// Package hash collects the primitive hash functions used across the
// wire and signing layers: SHA-256, RIPEMD-160, their double/composed
// forms, and the Merkle tree used to verify block transaction lists.
package hash

import (
	"crypto/sha256"

	"github.com/n3lib/core/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ripemd160 has no maintained replacement
)

// Sha256 computes a single SHA-256 digest of b.
func Sha256(b []byte) util.Uint256 {
	hash := sha256.Sum256(b)
	return hash
}

// DoubleSha256 computes SHA-256(SHA-256(b)), the digest used for
// transaction/block hashes and the Base58-Check checksum.
func DoubleSha256(b []byte) util.Uint256 {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second
}

// RipeMD160 computes a RIPEMD-160 digest of b.
func RipeMD160(b []byte) util.Uint160 {
	h := ripemd160.New()
	_, _ = h.Write(b) // hash.Hash.Write never returns an error.
	var u util.Uint160
	copy(u[:], h.Sum(nil))
	return u
}

// Hash160 computes RIPEMD160(SHA256(b)), the script-hash function used
// for both contract hashes and account addresses.
func Hash160(b []byte) util.Uint160 {
	first := sha256.Sum256(b)
	return RipeMD160(first[:])
}

// Checksum returns the first 4 bytes of DoubleSha256(b), the checksum
// tail appended by Base58-Check and by the NEF container.
func Checksum(b []byte) []byte {
	h := DoubleSha256(b)
	return h[:4]
}
