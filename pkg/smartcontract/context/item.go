// Package context collects the partial signatures gathered while
// multiple parties co-sign a verification script, before a witness can
// be assembled from them.
package context

import (
	"encoding/hex"

	"github.com/n3lib/core/pkg/crypto/keys"
	"github.com/n3lib/core/pkg/smartcontract"
	"github.com/n3lib/core/pkg/util"
)

// Item represents the signing progress for a single verification
// script: the script itself, the parameters its invocation script will
// push (signatures, filled in as they arrive), and a lookup of the
// signatures gathered so far keyed by the signer's public key.
type Item struct {
	Script     util.Uint160              `json:"script"`
	Parameters []smartcontract.Parameter `json:"parameters"`
	Signatures map[string][]byte         `json:"signatures"`
}

// AddSignature records sig as having come from pub.
func (it *Item) AddSignature(pub *keys.PublicKey, sig []byte) {
	if it.Signatures == nil {
		it.Signatures = make(map[string][]byte)
	}
	it.Signatures[hex.EncodeToString(pub.Bytes())] = sig
}

// GetSignature returns the signature recorded for pub, or nil if none
// has been added yet.
func (it *Item) GetSignature(pub *keys.PublicKey) []byte {
	return it.Signatures[hex.EncodeToString(pub.Bytes())]
}
