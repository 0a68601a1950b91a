// Package wallet provides thin client-side helpers built on top of
// pkg/crypto/keys: NEP-17 token metadata wrappers used to label
// transfers without round-tripping through a node for a symbol/decimals
// lookup every time.
package wallet

import (
	"math/big"

	"github.com/n3lib/core/pkg/encoding/address"
	"github.com/n3lib/core/pkg/encoding/fixedn"
	"github.com/n3lib/core/pkg/util"
)

// Token represents a NEP-17 (or compatible) token, identified by its
// contract hash, with the display metadata a client needs to render a
// balance or transfer without querying the contract.
type Token struct {
	Name     string       `json:"name"`
	Hash     util.Uint160 `json:"script_hash"`
	Decimals int64        `json:"decimals"`
	Symbol   string       `json:"symbol"`
	Standard string       `json:"standard"`
}

// NewToken creates a Token from its contract hash and metadata.
func NewToken(h util.Uint160, name, symbol string, decimals int64, standard string) *Token {
	return &Token{
		Name:     name,
		Hash:     h,
		Decimals: decimals,
		Symbol:   symbol,
		Standard: standard,
	}
}

// Address returns the token contract's address.
func (t *Token) Address() string {
	return address.Uint160ToString(t.Hash)
}

// FormatAmount renders an integer token amount as a decimal string
// using the token's decimals.
func (t *Token) FormatAmount(amount *big.Int) string {
	return fixedn.ToString(amount, int(t.Decimals))
}

// ParseAmount converts a decimal amount string into the integer
// representation transfers operate on.
func (t *Token) ParseAmount(s string) (*big.Int, error) {
	return fixedn.FromString(s, int(t.Decimals))
}
