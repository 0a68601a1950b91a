package keys

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/util"
)

// PublicKey is an ECDSA public key, encoded on the wire and in
// scripts in its 33-byte compressed form.
type PublicKey ecdsa.PublicKey

// NewPublicKeyFromBytes decodes a public key from its compressed or
// uncompressed form, or from the single-byte point-at-infinity
// encoding (0x00).
func NewPublicKeyFromBytes(b []byte) (*PublicKey, error) {
	pub := new(PublicKey)
	r := io.NewBinReaderFromBuf(b)
	pub.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	return pub, nil
}

// NewPublicKeyFromString decodes a public key from its hex-encoded
// compressed form.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b)
}

// Bytes returns the 33-byte compressed encoding of p, or a single
// 0x00 byte if p is the point at infinity.
func (p *PublicKey) Bytes() []byte {
	if p.X == nil || p.Y == nil {
		return []byte{0x00}
	}

	buf := make([]byte, 33)
	if p.Y.Bit(0) == 0 {
		buf[0] = 0x02
	} else {
		buf[0] = 0x03
	}
	p.X.FillBytes(buf[1:])
	return buf
}

// EncodeBinary implements io.Serializable.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// DecodeBinary implements io.Serializable.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	prefix := r.ReadB()
	if r.Err != nil {
		return
	}

	if prefix == 0x00 {
		p.Curve = nil
		p.X, p.Y = nil, nil
		return
	}

	curve := elliptic.P256()
	p.Curve = curve

	switch prefix {
	case 0x02, 0x03:
		xBytes := make([]byte, 32)
		r.ReadBytes(xBytes)
		if r.Err != nil {
			return
		}
		x := new(big.Int).SetBytes(xBytes)
		y, err := decompressY(curve, x, prefix == 0x03)
		if err != nil {
			r.Err = err
			return
		}
		p.X, p.Y = x, y
	case 0x04:
		xBytes := make([]byte, 32)
		yBytes := make([]byte, 32)
		r.ReadBytes(xBytes)
		r.ReadBytes(yBytes)
		if r.Err != nil {
			return
		}
		p.X = new(big.Int).SetBytes(xBytes)
		p.Y = new(big.Int).SetBytes(yBytes)
	default:
		r.Err = errors.New("keys: invalid public key prefix")
	}
}

func decompressY(curve elliptic.Curve, x *big.Int, odd bool) (*big.Int, error) {
	params := curve.Params()
	// y^2 = x^3 - 3x + b (mod p)
	ySq := new(big.Int).Exp(x, big.NewInt(3), params.P)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	ySq.Sub(ySq, threeX)
	ySq.Add(ySq, params.B)
	ySq.Mod(ySq, params.P)

	y := new(big.Int).ModSqrt(ySq, params.P)
	if y == nil {
		return nil, errors.New("keys: point not on curve")
	}
	if y.Bit(0) != boolToBit(odd) {
		y.Sub(params.P, y)
	}
	return y, nil
}

func boolToBit(b bool) uint {
	if b {
		return 1
	}
	return 0
}

// GetScriptHash returns the account script hash for p: the Hash160 of
// its single-signature verification script.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	return scriptHashFromScript(VerificationScript(p))
}

// Address returns the N3 address for p's verification script.
func (p *PublicKey) Address() (string, error) {
	return addrFromHash(p.GetScriptHash()), nil
}

// Verify checks signature (a 64-byte r||s) against a 32-byte message
// digest. It never panics, reporting false for malformed input or an
// uninitialized key. It works uniformly for secp256r1 and secp256k1
// keys: both curve implementations satisfy elliptic.Curve, and
// crypto/ecdsa.Verify only ever uses that interface.
func (p *PublicKey) Verify(signature []byte, digest []byte) bool {
	if p.X == nil || p.Y == nil || p.Curve == nil {
		return false
	}
	if len(signature) != 64 {
		return false
	}

	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])

	pub := &ecdsa.PublicKey{Curve: p.Curve, X: p.X, Y: p.Y}
	return ecdsa.Verify(pub, digest, r, s)
}

// Equals reports whether p and q encode the same point.
func (p *PublicKey) Equals(q *PublicKey) bool {
	if p == nil || q == nil {
		return p == q
	}
	return bytes.Equal(p.Bytes(), q.Bytes())
}

// Equal is an alias for Equals, satisfying comparators that expect
// the standard library's Equal naming convention.
func (p *PublicKey) Equal(q *PublicKey) bool {
	return p.Equals(q)
}

// MarshalJSON implements the json.Marshaler interface.
func (p *PublicKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(p.Bytes()) + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	pub, err := NewPublicKeyFromBytes(b)
	if err != nil {
		return err
	}
	*p = *pub
	return nil
}

// Cmp orders public keys by their compressed byte encoding, the
// ordering multisig verification scripts are built in.
func (p *PublicKey) Cmp(q *PublicKey) int {
	return bytes.Compare(p.Bytes(), q.Bytes())
}
