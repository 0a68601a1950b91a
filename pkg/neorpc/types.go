package neorpc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/n3lib/core/pkg/core/transaction"
	"github.com/n3lib/core/pkg/crypto/keys"
	"github.com/n3lib/core/pkg/encoding/address"
	"github.com/n3lib/core/pkg/util"
)

// SignerWithWitness is a transaction's signer together with the witness
// that proves it, the way invoke* RPC methods accept them as
// parameters. The witness part is optional.
type SignerWithWitness struct {
	transaction.Signer
	transaction.Witness
}

// signerWithWitnessAux is an auxiliary struct for JSON marshalling. We
// can't use `json:",inline"` and a map because of the account field
// that has different representations on the wire (address or hex hash).
type signerWithWitnessAux struct {
	Account            string                    `json:"account"`
	Scopes             transaction.WitnessScope  `json:"scopes"`
	AllowedContracts   []util.Uint160            `json:"allowedcontracts,omitempty"`
	AllowedGroups      []*keys.PublicKey         `json:"allowedgroups,omitempty"`
	Rules              []transaction.WitnessRule `json:"rules,omitempty"`
	InvocationScript   []byte                    `json:"invocation,omitempty"`
	VerificationScript []byte                    `json:"verification,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (s SignerWithWitness) MarshalJSON() ([]byte, error) {
	sww := &signerWithWitnessAux{
		Account:            "0x" + s.Account.StringLE(),
		Scopes:             s.Scopes,
		AllowedContracts:   s.AllowedContracts,
		AllowedGroups:      s.AllowedGroups,
		Rules:              s.Rules,
		InvocationScript:   s.InvocationScript,
		VerificationScript: s.VerificationScript,
	}
	return json.Marshal(sww)
}

// UnmarshalJSON implements the json.Unmarshaler interface. The account
// is accepted either as an address or as a (possibly "0x"-prefixed)
// little-endian script-hash hex.
func (s *SignerWithWitness) UnmarshalJSON(data []byte) error {
	aux := new(signerWithWitnessAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return fmt.Errorf("not a signer: %w", err)
	}
	if len(aux.AllowedContracts) > transaction.MaxAttributes {
		return fmt.Errorf("invalid number of AllowedContracts: got %d, allowed %d at max", len(aux.AllowedContracts), transaction.MaxAttributes)
	}
	if len(aux.AllowedGroups) > transaction.MaxAttributes {
		return fmt.Errorf("invalid number of AllowedGroups: got %d, allowed %d at max", len(aux.AllowedGroups), transaction.MaxAttributes)
	}
	if len(aux.Rules) > transaction.MaxAttributes {
		return fmt.Errorf("invalid number of Rules: got %d, allowed %d at max", len(aux.Rules), transaction.MaxAttributes)
	}
	acc, err := util.Uint160DecodeStringLE(strings.TrimPrefix(aux.Account, "0x"))
	if err != nil {
		acc, err = address.StringToUint160(aux.Account)
	}
	if err != nil {
		return fmt.Errorf("not a signer: %w", err)
	}
	s.Signer = transaction.Signer{
		Account:          acc,
		Scopes:           aux.Scopes,
		AllowedContracts: aux.AllowedContracts,
		AllowedGroups:    aux.AllowedGroups,
		Rules:            aux.Rules,
	}
	s.Witness = transaction.Witness{
		InvocationScript:   aux.InvocationScript,
		VerificationScript: aux.VerificationScript,
	}
	return nil
}
