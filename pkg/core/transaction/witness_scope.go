package transaction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WitnessScope represents a set of witness scopes bound to a [Signer].
// The wire encoding of a scope set is a single byte; the JSON encoding
// is a comma-separated list of the scope names below.
type WitnessScope byte

const (
	// None specifies that no contract was witnessed. Only the
	// transaction itself (sender) can be verified.
	None WitnessScope = 0

	// CalledByEntry means that the witness is only valid when the
	// contract invoking System.Runtime.CheckWitness is the entry
	// script of the invocation, or is called by the entry script.
	CalledByEntry WitnessScope = 0x01

	// CustomContracts define the allowed set of contracts that a
	// signature may be valid for, see [Signer.AllowedContracts].
	CustomContracts WitnessScope = 0x10

	// CustomGroups define the allowed set of groups (by public key)
	// that a signature may be valid for, see [Signer.AllowedGroups].
	CustomGroups WitnessScope = 0x20

	// Rules denotes that custom witness rules are used, see
	// [Signer.Rules].
	Rules WitnessScope = 0x40

	// Global allows this witness in all contexts, it can't be combined
	// with any other scope.
	Global WitnessScope = 0x80
)

var scopeNames = []struct {
	s WitnessScope
	n string
}{
	{CalledByEntry, "CalledByEntry"},
	{CustomContracts, "CustomContracts"},
	{CustomGroups, "CustomGroups"},
	{Rules, "Rules"},
	{Global, "Global"},
}

// String implements the fmt.Stringer interface, returning s as a
// comma-separated list of its set bits, or "None" if none are set.
func (s WitnessScope) String() string {
	if s == None {
		return "None"
	}
	var names []string
	for _, sn := range scopeNames {
		if s&sn.s != 0 {
			names = append(names, sn.n)
		}
	}
	return strings.Join(names, ", ")
}

func scopeFromName(name string) (WitnessScope, error) {
	switch name {
	case "None":
		return None, nil
	case "CalledByEntry":
		return CalledByEntry, nil
	case "CustomContracts":
		return CustomContracts, nil
	case "CustomGroups":
		return CustomGroups, nil
	case "Rules":
		return Rules, nil
	case "Global":
		return Global, nil
	default:
		return 0, fmt.Errorf("unknown scope %q", name)
	}
}

// ScopesFromString parses a comma-separated (optionally
// whitespace-padded) list of scope names into a WitnessScope bitfield.
// Repeated names are deduplicated. Global can't be combined with any
// other scope.
func ScopesFromString(s string) (WitnessScope, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty scope list")
	}
	var result WitnessScope
	parts := strings.Split(s, ",")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		scope, err := scopeFromName(p)
		if err != nil {
			return 0, err
		}
		if scope == Global && result != 0 {
			return 0, fmt.Errorf("global scope can't be combined with other scopes")
		}
		if result&Global != 0 {
			return 0, fmt.Errorf("global scope can't be combined with other scopes")
		}
		result |= scope
	}
	return result, nil
}

// ScopesFromByte converts a byte into a WitnessScope, rejecting
// patterns that set bits outside the known scopes or that combine
// Global with anything else.
func ScopesFromByte(b byte) (WitnessScope, error) {
	var known byte = byte(CalledByEntry | CustomContracts | CustomGroups | Rules | Global)
	if b&^known != 0 {
		return 0, fmt.Errorf("invalid witness scope byte 0x%x", b)
	}
	s := WitnessScope(b)
	if s&Global != 0 && s != Global {
		return 0, fmt.Errorf("global scope can't be combined with other scopes")
	}
	return s, nil
}

// MarshalJSON implements the json.Marshaler interface.
func (s WitnessScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *WitnessScope) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	scopes, err := ScopesFromString(str)
	if err != nil {
		return err
	}
	*s = scopes
	return nil
}
