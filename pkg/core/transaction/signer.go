package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/n3lib/core/pkg/crypto/keys"
	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/util"
)

// maxSignerSubitems bounds how many entries any of a Signer's per-scope
// lists may carry.
const maxSignerSubitems = 16

// ErrInvalidSigner is returned when a Signer carries scope-dependent
// data inconsistent with its Scopes bitfield.
var ErrInvalidSigner = errors.New("invalid signer")

// Signer states which scripts a [Witness] is allowed to authorize and
// under what conditions.
type Signer struct {
	// Account is the signer's account script hash.
	Account util.Uint160
	// Scopes determines which contracts the witness is valid for.
	Scopes WitnessScope
	// AllowedContracts is a list of contracts a CustomContracts-scoped
	// witness is valid for.
	AllowedContracts []util.Uint160
	// AllowedGroups is a list of contract groups a CustomGroups-scoped
	// witness is valid for.
	AllowedGroups []*keys.PublicKey
	// Rules is a list of rules for a Rules-scoped witness.
	Rules []WitnessRule
}

// Validate reports whether c's scope-dependent data is consistent
// with its Scopes bitfield: a Global signer can't also carry
// custom-contract/group/rule data, and CustomContracts/CustomGroups/
// Rules scopes each require at least one corresponding entry.
func (c *Signer) Validate() error {
	if c.Scopes&Global != 0 {
		if len(c.AllowedContracts) != 0 || len(c.AllowedGroups) != 0 || len(c.Rules) != 0 {
			return fmt.Errorf("%w: global scope can't carry custom contracts/groups/rules", ErrInvalidSigner)
		}
		return nil
	}
	if c.Scopes&CustomContracts != 0 && len(c.AllowedContracts) == 0 {
		return fmt.Errorf("%w: CustomContracts scope with no allowed contracts", ErrInvalidSigner)
	}
	if c.Scopes&CustomGroups != 0 && len(c.AllowedGroups) == 0 {
		return fmt.Errorf("%w: CustomGroups scope with no allowed groups", ErrInvalidSigner)
	}
	if c.Scopes&Rules != 0 && len(c.Rules) == 0 {
		return fmt.Errorf("%w: Rules scope with no rules", ErrInvalidSigner)
	}
	return nil
}

// EncodeBinary implements the io.Serializable interface.
func (c *Signer) EncodeBinary(bw *io.BinWriter) {
	c.Account.EncodeBinary(bw)
	bw.WriteB(byte(c.Scopes))
	if c.Scopes&CustomContracts != 0 {
		bw.WriteArray(c.AllowedContracts)
	}
	if c.Scopes&CustomGroups != 0 {
		bw.WriteArray(c.AllowedGroups)
	}
	if c.Scopes&Rules != 0 {
		bw.WriteVarUint(uint64(len(c.Rules)))
		for i := range c.Rules {
			c.Rules[i].EncodeBinary(bw)
		}
	}
}

// DecodeBinary implements the io.Serializable interface.
func (c *Signer) DecodeBinary(br *io.BinReader) {
	c.Account.DecodeBinary(br)
	scope := br.ReadB()
	if br.Err != nil {
		return
	}
	scopes, err := ScopesFromByte(scope)
	if err != nil {
		br.Err = err
		return
	}
	c.Scopes = scopes
	if c.Scopes&CustomContracts != 0 {
		br.ReadArray(&c.AllowedContracts, maxSignerSubitems)
	}
	if c.Scopes&CustomGroups != 0 {
		br.ReadArray(&c.AllowedGroups, maxSignerSubitems)
	}
	if br.Err != nil {
		return
	}
	if c.Scopes&Rules != 0 {
		n := br.ReadVarUint()
		if br.Err != nil {
			return
		}
		if n > maxSignerSubitems {
			br.Err = errors.New("too many witness rules")
			return
		}
		rules := make([]WitnessRule, n)
		for i := range rules {
			rules[i].DecodeBinary(br)
			if br.Err != nil {
				return
			}
		}
		c.Rules = rules
	}
}

type signerAux struct {
	Account          util.Uint160      `json:"account"`
	Scopes           WitnessScope      `json:"scopes"`
	AllowedContracts []util.Uint160    `json:"allowedcontracts,omitempty"`
	AllowedGroups    []*keys.PublicKey `json:"allowedgroups,omitempty"`
	Rules            []WitnessRule     `json:"rules,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (c *Signer) MarshalJSON() ([]byte, error) {
	return json.Marshal(signerAux{
		Account:          c.Account,
		Scopes:           c.Scopes,
		AllowedContracts: c.AllowedContracts,
		AllowedGroups:    c.AllowedGroups,
		Rules:            c.Rules,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *Signer) UnmarshalJSON(data []byte) error {
	aux := new(signerAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	c.Account = aux.Account
	c.Scopes = aux.Scopes
	c.AllowedContracts = aux.AllowedContracts
	c.AllowedGroups = aux.AllowedGroups
	c.Rules = aux.Rules
	return nil
}
