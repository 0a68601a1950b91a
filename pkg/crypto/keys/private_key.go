// Package keys implements the account key material used to sign
// transactions: secp256r1 (and secp256k1) key pairs, their WIF and
// NEP-2 encodings, and the public keys and addresses derived from
// them.
package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/n3lib/core/pkg/encoding/address"
	"github.com/nspcc-dev/rfc6979"
)

// PrivateKey is an ECDSA private key, usable on either the default
// secp256r1 curve or, for interoperability with Ethereum-style
// tooling, secp256k1.
type PrivateKey struct {
	ecdsa.PrivateKey
}

// NewPrivateKey creates a new random private key on the secp256r1
// curve.
func NewPrivateKey() (*PrivateKey, error) {
	return generate(elliptic.P256())
}

// NewSecp256k1PrivateKey creates a new random private key on the
// secp256k1 curve.
func NewSecp256k1PrivateKey() (*PrivateKey, error) {
	return generate(secp256k1.S256())
}

func generate(curve elliptic.Curve) (*PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{PrivateKey: *priv}, nil
}

// NewPrivateKeyFromHex returns a secp256r1 private key decoded from
// its hex-encoded scalar.
func NewPrivateKeyFromHex(str string) (*PrivateKey, error) {
	b, err := hex.DecodeString(str)
	if err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(b)
}

// NewPrivateKeyFromBytes returns a secp256r1 private key decoded from
// its raw scalar bytes.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, errors.New("keys: invalid private key length")
	}

	priv := new(ecdsa.PrivateKey)
	priv.PublicKey.Curve = elliptic.P256()
	priv.D = new(big.Int).SetBytes(b)
	priv.PublicKey.X, priv.PublicKey.Y = priv.PublicKey.Curve.ScalarBaseMult(b)

	return &PrivateKey{PrivateKey: *priv}, nil
}

// PublicKey derives the public key that corresponds to p.
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := PublicKey(p.PrivateKey.PublicKey)
	return &pub
}

// Sign signs an arbitrary message, hashing it with SHA-256 first and
// producing a deterministic (RFC 6979) 64-byte r||s signature.
func (p *PrivateKey) Sign(msg []byte) []byte {
	digest := sha256.Sum256(msg)
	return p.signDigest(digest[:])
}

// SignHash signs a precomputed 32-byte digest, producing a
// deterministic 64-byte r||s signature.
func (p *PrivateKey) SignHash(hash [32]byte) []byte {
	return p.signDigest(hash[:])
}

func (p *PrivateKey) signDigest(digest []byte) []byte {
	r, s := rfc6979.SignECDSA(&p.PrivateKey, digest, sha256.New)

	params := p.Curve.Params()
	halfN := new(big.Int).Rsh(params.N, 1)
	if s.Cmp(halfN) > 0 {
		s = new(big.Int).Sub(params.N, s)
	}
	byteLen := (params.BitSize + 7) / 8

	buf := make([]byte, 2*byteLen)
	r.FillBytes(buf[:byteLen])
	s.FillBytes(buf[byteLen:])
	return buf
}

// Address returns the N3 address corresponding to p's public key.
func (p *PrivateKey) Address() string {
	return address.Uint160ToString(p.PublicKey().GetScriptHash())
}

// WIF returns p encoded in Wallet Import Format, compressed.
func (p *PrivateKey) WIF() string {
	w, err := WIFEncode(p.Bytes(), WIFVersion, true)
	if err != nil {
		// Bytes() always returns a 32-byte scalar, so WIFEncode can't fail.
		panic(err)
	}
	return w
}

// Bytes returns the raw 32-byte private key scalar, left-padded with
// zeroes.
func (p *PrivateKey) Bytes() []byte {
	byteLen := (p.Curve.Params().BitSize + 7) / 8
	buf := make([]byte, byteLen)
	p.D.FillBytes(buf)
	return buf
}

// String returns p's private key scalar as a hex string.
func (p *PrivateKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// Destroy zeroes out the private scalar, rendering p unusable. It
// does not clear PublicKey's coordinates, as those are not secret.
func (p *PrivateKey) Destroy() {
	if p.D != nil {
		p.D.SetInt64(0)
	}
}

// NewPrivateKeyFromWIF decodes a WIF-encoded private key.
func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	w, err := WIFDecode(wif, WIFVersion)
	if err != nil {
		return nil, err
	}
	return w.PrivateKey, nil
}
